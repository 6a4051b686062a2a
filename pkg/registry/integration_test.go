package registry_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	registry "github.com/imagedefs/image-definitions-api/pkg/registry"
	"github.com/imagedefs/image-definitions-api/pkg/registry/handler"
	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/repositories"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/imagedefs/image-definitions-api/pkg/registry/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type integrationEnv struct {
	server *httptest.Server
	db     *gorm.DB
	client *http.Client
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	registry.SetupErrorHook()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.ProductGroup{},
		&models.Product{},
		&models.Variant{},
		&models.Artifact{},
	))
	// shared in-memory db persists across connections, start clean
	for _, model := range []any{&models.Artifact{}, &models.Variant{}, &models.Product{}, &models.ProductGroup{}} {
		require.NoError(t, db.Where("1 = 1").Delete(model).Error)
	}

	groupRepo := repositories.NewProductGroupRepository(db)
	productRepo := repositories.NewProductRepository(db)
	variantRepo := repositories.NewVariantRepository(db)
	artifactRepo := repositories.NewArtifactRepository(db)

	router := registry.NewRouter("test-version", registry.Controllers{
		ProductGroups: handler.NewProductGroupController(services.NewProductGroupService(groupRepo)),
		Products:      handler.NewProductController(services.NewProductService(productRepo, groupRepo)),
		Variants:      handler.NewVariantController(services.NewVariantService(variantRepo, productRepo)),
		Artifacts:     handler.NewArtifactController(services.NewArtifactService(artifactRepo, variantRepo)),
	}, "")

	server := testutil.NewServer(t, router)

	return &integrationEnv{
		server: server,
		db:     db,
		client: &http.Client{Timeout: 2 * time.Second},
	}
}

func (e *integrationEnv) doRequest(t *testing.T, method, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, nil)
	require.NoError(t, err)

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *integrationEnv) doJSONRequest(t *testing.T, method, path string, payload any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	err = json.Unmarshal(data, &out)
	require.NoErrorf(t, err, "body=%s", string(data))
	return out
}

func TestRegistryApplicationRun(t *testing.T) {
	env := newIntegrationEnv(t)

	var (
		group    models.ProductGroup
		product  models.Product
		variant  models.Variant
		artifact models.Artifact
	)

	t.Run("create product group", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/product-groups", map[string]string{
			"name":        "rlc",
			"description": "Rocky Linux from CIQ",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, "test-version", resp.Header.Get("API-Version"))

		group = decodeBody[models.ProductGroup](t, resp)
		require.NotZero(t, group.ID)
		require.Equal(t, "rlc", group.Name)
	})

	t.Run("duplicate group name rejected", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/product-groups", map[string]string{
			"name": "rlc",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		prob := decodeBody[problem.APIError](t, resp)
		require.Equal(t, 400, prob.Status)
	})

	t.Run("create group missing name", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/product-groups", map[string]string{
			"description": "nameless",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		prob := decodeBody[problem.APIError](t, resp)
		require.Equal(t, "Bad Request", prob.Title)
		require.Equal(t, 400, prob.Status)
	})

	t.Run("create product", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/products", map[string]any{
			"name":           "rlc-hardened",
			"version":        "9",
			"productGroupId": group.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		product = decodeBody[models.Product](t, resp)
		require.NotZero(t, product.ID)
		require.Equal(t, group.ID, product.ProductGroupID)
	})

	t.Run("create product unknown group", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/products", map[string]any{
			"name":           "orphan",
			"productGroupId": 9999,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		prob := decodeBody[problem.APIError](t, resp)
		require.Equal(t, 400, prob.Status)
		require.Len(t, prob.InvalidParams, 1)
		require.Equal(t, "productGroupId", prob.InvalidParams[0].Name)
	})

	t.Run("create variant", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/variants", map[string]any{
			"name":         "rlc-hardened-x86_64",
			"architecture": "x86_64",
			"buildConfig":  map[string]any{"releasever": "9"},
			"productId":    product.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		variant = decodeBody[models.Variant](t, resp)
		require.NotZero(t, variant.ID)
		require.Equal(t, models.ArchX8664, variant.Architecture)
	})

	t.Run("create variant invalid architecture", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/variants", map[string]any{
			"name":         "rlc-hardened-riscv",
			"architecture": "riscv64",
			"productId":    product.ID,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		prob := decodeBody[problem.APIError](t, resp)
		require.Equal(t, 400, prob.Status)
	})

	t.Run("create artifact with defaults", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/artifacts", map[string]any{
			"name":         "rlc-hardened-x86_64-base",
			"artifactType": "base_image",
			"sizeBytes":    2048,
			"variantId":    variant.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		artifact = decodeBody[models.Artifact](t, resp)
		require.Equal(t, models.StatusPending, artifact.Status)
		require.NotEmpty(t, artifact.BuildID)
	})

	t.Run("create second artifact", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/artifacts", map[string]any{
			"name":         "rlc-hardened-x86_64-aws",
			"artifactType": "cloud_image",
			"status":       "completed",
			"region":       "us-east-1",
			"sizeBytes":    4096,
			"variantId":    variant.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("list product groups", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/api/product-groups")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "test-version", resp.Header.Get("API-Version"))
		require.Equal(t, "1", resp.Header.Get("X-Total-Count"))
		require.Contains(t, resp.Header.Get("Link"), "rel=\"self\"")

		groups := decodeBody[[]models.ProductGroup](t, resp)
		require.Len(t, groups, 1)
		require.Equal(t, "rlc", groups[0].Name)
	})

	t.Run("group detail lists products", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, fmt.Sprintf("/api/product-groups/%d/products", group.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		detail := decodeBody[models.ProductGroupDetail](t, resp)
		require.Equal(t, group.ID, detail.ID)
		require.Len(t, detail.Products, 1)
		require.Equal(t, product.ID, detail.Products[0].ID)
	})

	t.Run("filter variants by architecture", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/api/variants?architecture=x86_64")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, decodeBody[[]models.Variant](t, resp), 1)

		resp = env.doRequest(t, http.MethodGet, "/api/variants?architecture=aarch64")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Empty(t, decodeBody[[]models.Variant](t, resp))
	})

	t.Run("filter artifacts by status and region", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/api/artifacts?status=completed")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "1", resp.Header.Get("X-Total-Count"))

		completed := decodeBody[[]models.Artifact](t, resp)
		require.Len(t, completed, 1)
		require.Equal(t, "rlc-hardened-x86_64-aws", completed[0].Name)

		resp = env.doRequest(t, http.MethodGet, "/api/artifacts?region=east")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, decodeBody[[]models.Artifact](t, resp), 1)
	})

	t.Run("stats add up", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/api/artifacts/stats/summary")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		stats := decodeBody[models.ArtifactStats](t, resp)
		require.Equal(t, int64(2), stats.TotalArtifacts)
		require.Equal(t, int64(6144), stats.TotalSizeBytes)

		var byType, byStatus int64
		for _, n := range stats.ByType {
			byType += n
		}
		for _, n := range stats.ByStatus {
			byStatus += n
		}
		require.Equal(t, stats.TotalArtifacts, byType)
		require.Equal(t, stats.TotalArtifacts, byStatus)
	})

	t.Run("patch artifact status", func(t *testing.T) {
		resp := env.doJSONRequest(t, http.MethodPatch, fmt.Sprintf("/api/artifacts/%d", artifact.ID), map[string]any{
			"status":   "completed",
			"location": "s3://images/rlc-hardened-x86_64-base.qcow2",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		updated := decodeBody[models.Artifact](t, resp)
		require.Equal(t, models.StatusCompleted, updated.Status)
		require.Equal(t, "s3://images/rlc-hardened-x86_64-base.qcow2", updated.Location)
		require.Equal(t, artifact.BuildID, updated.BuildID)
	})

	t.Run("missing artifact gives problem json", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/api/artifacts/99999")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		prob := decodeBody[problem.APIError](t, resp)
		require.Equal(t, "Not Found", prob.Title)
		require.Equal(t, 404, prob.Status)
		require.Contains(t, prob.Detail, "Artifact not found")
	})

	t.Run("health endpoint", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		health := decodeBody[models.Health](t, resp)
		require.Equal(t, "healthy", health.Status)
		require.Equal(t, "test-version", health.Version)
	})

	t.Run("request id echoed", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodGet, "/health")
		require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		resp.Body.Close()
	})

	t.Run("delete group cascades", func(t *testing.T) {
		resp := env.doRequest(t, http.MethodDelete, fmt.Sprintf("/api/product-groups/%d", group.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		msg := decodeBody[models.Message](t, resp)
		require.Contains(t, msg.Message, "deleted")

		for _, model := range []any{&models.Product{}, &models.Variant{}, &models.Artifact{}} {
			var count int64
			require.NoError(t, env.db.Model(model).Count(&count).Error)
			require.Zero(t, count)
		}
	})
}

func TestPaginationHeaders(t *testing.T) {
	env := newIntegrationEnv(t)

	for i := 0; i < 3; i++ {
		resp := env.doJSONRequest(t, http.MethodPost, "/api/product-groups", map[string]string{
			"name": fmt.Sprintf("group-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := env.doRequest(t, http.MethodGet, "/api/product-groups?page=1&perPage=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "3", resp.Header.Get("X-Total-Count"))
	require.Contains(t, resp.Header.Get("Link"), "rel=\"next\"")

	groups := decodeBody[[]models.ProductGroup](t, resp)
	require.Len(t, groups, 2)

	resp = env.doRequest(t, http.MethodGet, "/api/product-groups?page=2&perPage=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Link"), "rel=\"prev\"")
	require.Len(t, decodeBody[[]models.ProductGroup](t, resp), 1)
}
