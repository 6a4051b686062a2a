package bootstrap_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/imagedefs/image-definitions-api/pkg/bootstrap"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProductGroup{},
		&models.Product{},
		&models.Variant{},
		&models.Artifact{},
	))
	return db
}

func configPath() string {
	return filepath.Join("testdata", "unified-config.yml")
}

func TestRun_SeedsHierarchy(t *testing.T) {
	db := setupDB(t)

	result, err := bootstrap.Run(context.Background(), db, bootstrap.Options{
		ConfigPath: configPath(),
	})
	require.NoError(t, err)

	// CIQ-Kernel is blacklisted, rlc-8 is a just_like alias
	assert.Equal(t, 2, result.GroupsCreated)
	assert.Equal(t, 2, result.ProductsCreated)
	assert.Equal(t, 3, result.VariantsCreated)

	var groups []models.ProductGroup
	require.NoError(t, db.Order("name").Find(&groups).Error)
	require.Len(t, groups, 2)
	assert.Equal(t, "rlc", groups[0].Name)
	assert.Equal(t, "Rocky Linux from CIQ", groups[0].Description)
	assert.Equal(t, "sig-hpc", groups[1].Name)

	var product models.Product
	require.NoError(t, db.Where("name = ?", "rlc-9").First(&product).Error)
	assert.Equal(t, "9", product.Version)

	var variants []models.Variant
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("name").Find(&variants).Error)
	require.Len(t, variants, 2)
	assert.Equal(t, "rlc-9-aarch64", variants[0].Name)
	assert.Equal(t, models.ArchAarch64, variants[0].Architecture)
	assert.Equal(t, "9", fmtAny(variants[0].BuildConfig["releasever"]))
	assert.Contains(t, variants[0].BuildConfig, "stages")
	assert.Contains(t, variants[0].BuildConfig, "repository_groups")

	// single-arch product falls back to x86_64
	var hpc models.Product
	require.NoError(t, db.Where("name = ?", "hpc-node").First(&hpc).Error)
	var hpcVariants []models.Variant
	require.NoError(t, db.Where("product_id = ?", hpc.ID).Find(&hpcVariants).Error)
	require.Len(t, hpcVariants, 1)
	assert.Equal(t, models.ArchX8664, hpcVariants[0].Architecture)
}

func TestRun_Idempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first, err := bootstrap.Run(ctx, db, bootstrap.Options{ConfigPath: configPath()})
	require.NoError(t, err)
	require.NotZero(t, first.GroupsCreated)

	second, err := bootstrap.Run(ctx, db, bootstrap.Options{ConfigPath: configPath()})
	require.NoError(t, err)
	assert.Zero(t, second.GroupsCreated)
	assert.Zero(t, second.ProductsCreated)
	assert.Zero(t, second.VariantsCreated)
	assert.NotZero(t, second.Skipped)

	var count int64
	require.NoError(t, db.Model(&models.ProductGroup{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	db := setupDB(t)

	result, err := bootstrap.Run(context.Background(), db, bootstrap.Options{
		ConfigPath: configPath(),
		DryRun:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.GroupsCreated)

	var count int64
	require.NoError(t, db.Model(&models.ProductGroup{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRun_MissingConfig(t *testing.T) {
	db := setupDB(t)

	_, err := bootstrap.Run(context.Background(), db, bootstrap.Options{
		ConfigPath: filepath.Join("testdata", "nope.yml"),
	})
	require.Error(t, err)
}

// releasever round-trips through JSON, so ints come back as float64
func fmtAny(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
