// Package bootstrap loads the unified build configuration YAML into the
// registry database. Existing records are left alone, so it is safe to run
// repeatedly against the same database.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
)

// DefaultBlacklist holds product groups that are tracked in the unified
// config but are not built through this registry.
var DefaultBlacklist = []string{"CIQ-Kernel", "sig-cloud-next"}

type Logger interface {
	Printf(format string, v ...any)
}

type Options struct {
	ConfigPath string
	DryRun     bool
	Blacklist  []string
	Logger     Logger
}

type Result struct {
	GroupsCreated   int
	ProductsCreated int
	VariantsCreated int
	Skipped         int
	Errors          int
}

// Config mirrors the layout of unified-config.yml.
type Config struct {
	ProductGroups map[string]GroupConfig `yaml:"product_groups"`
}

type GroupConfig struct {
	Description string                   `yaml:"description"`
	Products    map[string]ProductConfig `yaml:"products"`
}

type ProductConfig struct {
	Releasever       any            `yaml:"releasever"`
	Arches           []string       `yaml:"arches"`
	Stages           []string       `yaml:"stages"`
	RepositoryGroups map[string]any `yaml:"repository_groups"`
	JustLike         string         `yaml:"just_like"`
}

// Load reads and parses the unified config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Run seeds product groups, products and per-architecture variants from the
// unified config. All writes happen in one transaction; a dry run walks the
// same code path without touching the database.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	if db == nil {
		return Result{}, errors.New("db is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := Load(opts.ConfigPath)
	if err != nil {
		return Result{}, err
	}
	if len(cfg.ProductGroups) == 0 {
		logger.Printf("no product_groups found in %s", opts.ConfigPath)
		return Result{}, nil
	}

	blacklist := opts.Blacklist
	if blacklist == nil {
		blacklist = DefaultBlacklist
	}
	skip := make(map[string]bool, len(blacklist))
	for _, name := range blacklist {
		skip[strings.ToLower(name)] = true
	}

	s := &seeder{logger: logger, dryRun: opts.DryRun, skip: skip}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, groupName := range sortedKeys(cfg.ProductGroups) {
			if skip[strings.ToLower(groupName)] {
				logger.Printf("skipping blacklisted group %q", groupName)
				continue
			}
			if err := s.seedGroup(tx, groupName, cfg.ProductGroups[groupName]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.result, err
	}

	logger.Printf("done: groups=%d products=%d variants=%d skipped=%d",
		s.result.GroupsCreated, s.result.ProductsCreated, s.result.VariantsCreated, s.result.Skipped)
	return s.result, nil
}

type seeder struct {
	logger Logger
	dryRun bool
	skip   map[string]bool
	result Result
}

func (s *seeder) seedGroup(tx *gorm.DB, name string, cfg GroupConfig) error {
	group, err := s.ensureGroup(tx, name, cfg.Description)
	if err != nil {
		return err
	}
	if len(cfg.Products) == 0 {
		s.logger.Printf("group %q has no products", name)
		return nil
	}

	for _, productName := range sortedKeys(cfg.Products) {
		pc := cfg.Products[productName]
		if pc.JustLike != "" {
			// Aliases only point at another product's config; nothing to create.
			s.logger.Printf("skipping %q: just_like reference to %q", productName, pc.JustLike)
			s.result.Skipped++
			continue
		}
		product, err := s.ensureProduct(tx, group, productName, pc)
		if err != nil {
			return err
		}
		arches := pc.Arches
		if len(arches) == 0 {
			arches = []string{string(models.ArchX8664)}
		}
		for _, arch := range arches {
			if err := s.ensureVariant(tx, product, arch, pc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) ensureGroup(tx *gorm.DB, name, description string) (*models.ProductGroup, error) {
	var existing models.ProductGroup
	err := tx.Where("name = ?", name).First(&existing).Error
	if err == nil {
		s.result.Skipped++
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if description == "" {
		description = fmt.Sprintf("Product group for %s products", name)
	}
	group := models.ProductGroup{Name: name, Description: description}
	if !s.dryRun {
		if err := tx.Create(&group).Error; err != nil {
			return nil, fmt.Errorf("create product group %q: %w", name, err)
		}
	}
	s.result.GroupsCreated++
	return &group, nil
}

func (s *seeder) ensureProduct(tx *gorm.DB, group *models.ProductGroup, name string, cfg ProductConfig) (*models.Product, error) {
	var existing models.Product
	err := tx.Where("name = ? AND product_group_id = ?", name, group.ID).First(&existing).Error
	if err == nil {
		s.result.Skipped++
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	version := "1.0"
	if cfg.Releasever != nil {
		version = fmt.Sprintf("%v", cfg.Releasever)
	}
	product := models.Product{
		Name:           name,
		Version:        version,
		Description:    fmt.Sprintf("Product %s version %s", name, version),
		ProductGroupID: group.ID,
	}
	if !s.dryRun {
		if err := tx.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("create product %q: %w", name, err)
		}
	}
	s.result.ProductsCreated++
	return &product, nil
}

func (s *seeder) ensureVariant(tx *gorm.DB, product *models.Product, arch string, cfg ProductConfig) error {
	name := fmt.Sprintf("%s-%s", product.Name, arch)

	var existing models.Variant
	err := tx.Where("name = ? AND product_id = ?", name, product.ID).First(&existing).Error
	if err == nil {
		s.result.Skipped++
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	variant := models.Variant{
		Name:         name,
		Architecture: models.Architecture(arch),
		Description:  fmt.Sprintf("%s for %s architecture", product.Name, arch),
		BuildConfig:  buildConfig(cfg),
		ProductID:    product.ID,
	}
	if !s.dryRun {
		if err := tx.Create(&variant).Error; err != nil {
			return fmt.Errorf("create variant %q: %w", name, err)
		}
	}
	s.result.VariantsCreated++
	return nil
}

func buildConfig(cfg ProductConfig) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	if cfg.Releasever != nil {
		out["releasever"] = cfg.Releasever
	}
	if len(cfg.Stages) > 0 {
		out["stages"] = cfg.Stages
	}
	if len(cfg.RepositoryGroups) > 0 {
		out["repository_groups"] = sortedKeys(cfg.RepositoryGroups)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
