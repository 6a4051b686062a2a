package registry

import (
	"os"
	"path/filepath"

	"github.com/imagedefs/image-definitions-api/pkg/registry/handler"
	"github.com/imagedefs/image-definitions-api/pkg/registry/middleware"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"
)

var notFoundResponse = fizz.Response(
	"404",
	"Not Found",
	nil,
	nil,
	nil,
)

// Controllers bundles the per-entity controllers the router mounts.
type Controllers struct {
	ProductGroups *handler.ProductGroupController
	Products      *handler.ProductController
	Variants      *handler.VariantController
	Artifacts     *handler.ArtifactController
}

// NewRouter wires every API route plus the static dashboard.
func NewRouter(apiVersion string, c Controllers, staticDir string) *fizz.Fizz {
	g := gin.Default()
	g.Use(APIVersionMiddleware(apiVersion))
	g.Use(middleware.RequestID())

	mountStatic(g, staticDir)

	f := fizz.NewFromEngine(g)

	info := &openapi.Info{
		Title:       "Image Definitions API",
		Description: "Linux system image build tracking database",
		Version:     apiVersion,
	}

	root := f.Group("/api", "API", "Image definitions routes")

	groups := root.Group("/product-groups", "Product Groups", "Top-level organisational buckets")
	groups.GET("", []fizz.OperationOption{fizz.Summary("List product groups"), notFoundResponse},
		tonic.Handler(c.ProductGroups.ListProductGroups, 200))
	groups.GET("/:id", []fizz.OperationOption{fizz.Summary("Retrieve a product group"), notFoundResponse},
		tonic.Handler(c.ProductGroups.RetrieveProductGroup, 200))
	groups.GET("/:id/products", []fizz.OperationOption{fizz.Summary("Retrieve a product group with its products"), notFoundResponse},
		tonic.Handler(c.ProductGroups.RetrieveProductGroupProducts, 200))
	groups.POST("", []fizz.OperationOption{fizz.Summary("Create a product group")},
		tonic.Handler(c.ProductGroups.CreateProductGroup, 201))
	groups.PATCH("/:id", []fizz.OperationOption{fizz.Summary("Update a product group"), notFoundResponse},
		tonic.Handler(c.ProductGroups.UpdateProductGroup, 200))
	groups.DELETE("/:id", []fizz.OperationOption{fizz.Summary("Delete a product group and everything below it"), notFoundResponse},
		tonic.Handler(c.ProductGroups.DeleteProductGroup, 200))

	products := root.Group("/products", "Products", "Image products within a group")
	products.GET("", []fizz.OperationOption{fizz.Summary("List products"), notFoundResponse},
		tonic.Handler(c.Products.ListProducts, 200))
	products.GET("/:id", []fizz.OperationOption{fizz.Summary("Retrieve a product"), notFoundResponse},
		tonic.Handler(c.Products.RetrieveProduct, 200))
	products.POST("", []fizz.OperationOption{fizz.Summary("Create a product")},
		tonic.Handler(c.Products.CreateProduct, 201))
	products.PATCH("/:id", []fizz.OperationOption{fizz.Summary("Update a product"), notFoundResponse},
		tonic.Handler(c.Products.UpdateProduct, 200))
	products.DELETE("/:id", []fizz.OperationOption{fizz.Summary("Delete a product and its variants"), notFoundResponse},
		tonic.Handler(c.Products.DeleteProduct, 200))

	variants := root.Group("/variants", "Variants", "Per-architecture build configurations")
	variants.GET("", []fizz.OperationOption{fizz.Summary("List variants"), notFoundResponse},
		tonic.Handler(c.Variants.ListVariants, 200))
	variants.GET("/:id", []fizz.OperationOption{fizz.Summary("Retrieve a variant"), notFoundResponse},
		tonic.Handler(c.Variants.RetrieveVariant, 200))
	variants.POST("", []fizz.OperationOption{fizz.Summary("Create a variant")},
		tonic.Handler(c.Variants.CreateVariant, 201))
	variants.PATCH("/:id", []fizz.OperationOption{fizz.Summary("Update a variant"), notFoundResponse},
		tonic.Handler(c.Variants.UpdateVariant, 200))
	variants.DELETE("/:id", []fizz.OperationOption{fizz.Summary("Delete a variant and its artifacts"), notFoundResponse},
		tonic.Handler(c.Variants.DeleteVariant, 200))

	artifacts := root.Group("/artifacts", "Artifacts", "Concrete build outputs")
	artifacts.GET("", []fizz.OperationOption{fizz.Summary("List artifacts"), notFoundResponse},
		tonic.Handler(c.Artifacts.ListArtifacts, 200))
	artifacts.GET("/stats/summary", []fizz.OperationOption{fizz.Summary("Aggregate artifact statistics")},
		tonic.Handler(c.Artifacts.ArtifactStats, 200))
	artifacts.GET("/:id", []fizz.OperationOption{fizz.Summary("Retrieve an artifact"), notFoundResponse},
		tonic.Handler(c.Artifacts.RetrieveArtifact, 200))
	artifacts.POST("", []fizz.OperationOption{fizz.Summary("Create an artifact")},
		tonic.Handler(c.Artifacts.CreateArtifact, 201))
	artifacts.PATCH("/:id", []fizz.OperationOption{fizz.Summary("Update an artifact"), notFoundResponse},
		tonic.Handler(c.Artifacts.UpdateArtifact, 200))
	artifacts.DELETE("/:id", []fizz.OperationOption{fizz.Summary("Delete an artifact"), notFoundResponse},
		tonic.Handler(c.Artifacts.DeleteArtifact, 200))

	f.GET("/health", []fizz.OperationOption{fizz.Summary("Liveness check")},
		tonic.Handler(func(ctx *gin.Context) (*models.Health, error) {
			return &models.Health{Status: "healthy", Version: apiVersion}, nil
		}, 200))

	f.GET("/api/openapi.json", []fizz.OperationOption{}, f.OpenAPI(info, "json"))

	return f
}

func mountStatic(g *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}
	index := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}
	g.Static("/static", staticDir)
	g.GET("/", func(ctx *gin.Context) {
		ctx.File(index)
	})
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

// APIVersionMiddleware stamps successful responses with the API version.
func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}
