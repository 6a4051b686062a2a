package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	registry "github.com/imagedefs/image-definitions-api/pkg/registry"
	"github.com/imagedefs/image-definitions-api/pkg/registry/database"
	"github.com/imagedefs/image-definitions-api/pkg/registry/handler"
	"github.com/imagedefs/image-definitions-api/pkg/registry/repositories"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/imagedefs/image-definitions-api/pkg/jobs"
)

const apiVersion = "1.0.0"

func main() {
	_ = godotenv.Load()

	registry.SetupErrorHook()

	dsn, err := databaseURL()
	if err != nil {
		log.Fatalf("database configuration error: %v", err)
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, dsn); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	groupRepo := repositories.NewProductGroupRepository(db)
	productRepo := repositories.NewProductRepository(db)
	variantRepo := repositories.NewVariantRepository(db)
	artifactRepo := repositories.NewArtifactRepository(db)

	groupService := services.NewProductGroupService(groupRepo)
	productService := services.NewProductService(productRepo, groupRepo)
	variantService := services.NewVariantService(variantRepo, productRepo)
	artifactService := services.NewArtifactService(artifactRepo, variantRepo)

	jobs.ScheduleStaleArtifactSweep(ctx, artifactService, staleWindow())

	router := registry.NewRouter(apiVersion, registry.Controllers{
		ProductGroups: handler.NewProductGroupController(groupService),
		Products:      handler.NewProductController(productService),
		Variants:      handler.NewVariantController(variantService),
		Artifacts:     handler.NewArtifactController(artifactService),
	}, staticDir())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("Server is running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// databaseURL builds the connection string from DATABASE_URL, or from the
// individual DB_* variables when no full URL is set.
func databaseURL() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}

	host := os.Getenv("DB_HOSTNAME")
	user := os.Getenv("DB_USERNAME")
	pass := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_DBNAME")
	schema := os.Getenv("DB_SCHEMA")
	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("set DATABASE_URL, or DB_HOSTNAME, DB_USERNAME and DB_DBNAME")
	}
	if !strings.Contains(host, ":") {
		host += ":5432"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   dbname,
	}
	u.User = url.UserPassword(user, pass)
	if strings.TrimSpace(schema) != "" {
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func staleWindow() time.Duration {
	if raw := os.Getenv("STALE_ARTIFACT_WINDOW"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
		log.Printf("invalid STALE_ARTIFACT_WINDOW %q, using default", raw)
	}
	return jobs.DefaultStaleWindow
}

func staticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}
	return "./static"
}
