// Command bootstrap seeds the registry database from unified-config.yml.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/imagedefs/image-definitions-api/pkg/bootstrap"
	"github.com/imagedefs/image-definitions-api/pkg/registry/database"
)

func main() {
	configPath := flag.String("config", "unified-config.yml", "path to the unified build configuration")
	dryRun := flag.Bool("dry-run", false, "walk the config without writing to the database")
	blacklist := flag.String("blacklist", strings.Join(bootstrap.DefaultBlacklist, ","), "comma-separated product groups to skip")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	db, err := connectDB()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	result, err := bootstrap.Run(context.Background(), db, bootstrap.Options{
		ConfigPath: *configPath,
		DryRun:     *dryRun,
		Blacklist:  splitList(*blacklist),
	})
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	if result.Errors > 0 {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func connectDB() (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return database.Connect(dsn)
	}

	host := os.Getenv("DB_HOSTNAME")
	user := os.Getenv("DB_USERNAME")
	pass := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_DBNAME")
	schema := os.Getenv("DB_SCHEMA")
	if host == "" || user == "" || dbname == "" {
		return nil, fmt.Errorf("missing DB env vars; need DATABASE_URL, or DB_HOSTNAME, DB_USERNAME, DB_DBNAME")
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

	return database.Connect(u.String())
}
