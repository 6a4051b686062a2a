package services

import (
	"context"
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/repositories"
	"gorm.io/datatypes"
)

// VariantService implements the business rules for variants.
type VariantService struct {
	repo     repositories.VariantRepository
	products repositories.ProductRepository
}

func NewVariantService(repo repositories.VariantRepository, products repositories.ProductRepository) *VariantService {
	return &VariantService{repo: repo, products: products}
}

func (s *VariantService) ListVariants(ctx context.Context, p *models.ListVariantsParams) ([]models.Variant, models.Pagination, error) {
	return s.repo.List(ctx, p)
}

func (s *VariantService) RetrieveVariant(ctx context.Context, id uint) (*models.Variant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VariantService) CreateVariant(ctx context.Context, body *models.VariantPost) (*models.Variant, error) {
	if err := s.checkProduct(ctx, body.ProductID); err != nil {
		return nil, err
	}
	if !body.Architecture.IsValid() {
		return nil, invalidArchitecture(body.Architecture)
	}

	variant := &models.Variant{
		Name:         body.Name,
		Architecture: body.Architecture,
		Description:  body.Description,
		BuildConfig:  datatypes.JSONMap(body.BuildConfig),
		ProductID:    body.ProductID,
	}
	if err := s.repo.Create(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *VariantService) UpdateVariant(ctx context.Context, id uint, body *models.VariantPatch) (*models.Variant, error) {
	variant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", id), "Variant not found")
	}

	if body.ProductID != nil {
		if err := s.checkProduct(ctx, *body.ProductID); err != nil {
			return nil, err
		}
		variant.ProductID = *body.ProductID
	}
	if body.Architecture != nil {
		if !body.Architecture.IsValid() {
			return nil, invalidArchitecture(*body.Architecture)
		}
		variant.Architecture = *body.Architecture
	}
	if body.Name != nil {
		variant.Name = *body.Name
	}
	if body.Description != nil {
		variant.Description = *body.Description
	}
	if body.BuildConfig != nil {
		variant.BuildConfig = datatypes.JSONMap(body.BuildConfig)
	}

	if err := s.repo.Update(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *VariantService) DeleteVariant(ctx context.Context, id uint) error {
	variant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if variant == nil {
		return problem.NewNotFound(fmt.Sprintf("%d", id), "Variant not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *VariantService) checkProduct(ctx context.Context, id uint) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return problem.NewBadRequest("productId", "Product not found",
			problem.InvalidParam{Name: "productId", Reason: fmt.Sprintf("product %d does not exist", id)},
		)
	}
	return nil
}

func invalidArchitecture(arch models.Architecture) error {
	return problem.NewBadRequest("architecture", fmt.Sprintf("unknown architecture %q", arch),
		problem.InvalidParam{Name: "architecture", Reason: "must be one of x86_64, aarch64, ppc64le, s390x"},
	)
}
