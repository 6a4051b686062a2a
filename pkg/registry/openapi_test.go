package registry_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func TestGeneratedOpenAPIDocument(t *testing.T) {
	env := newIntegrationEnv(t)

	resp := env.doRequest(t, http.MethodGet, "/api/openapi.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(loader.Context))

	require.Equal(t, "Image Definitions API", doc.Info.Title)

	for _, path := range []string{
		"/api/product-groups",
		"/api/product-groups/{id}",
		"/api/product-groups/{id}/products",
		"/api/products",
		"/api/products/{id}",
		"/api/variants",
		"/api/variants/{id}",
		"/api/artifacts",
		"/api/artifacts/{id}",
		"/api/artifacts/stats/summary",
	} {
		require.NotNilf(t, doc.Paths.Find(path), "missing path %s", path)
	}

	item := doc.Paths.Find("/api/artifacts")
	require.NotNil(t, item.Get)
	require.NotNil(t, item.Post)
	item = doc.Paths.Find("/api/artifacts/{id}")
	require.NotNil(t, item.Patch)
	require.NotNil(t, item.Delete)
}
