package services

import (
	"context"
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/repositories"
)

// ProductService implements the business rules for products. It holds the
// group repository as well so parent references can be validated.
type ProductService struct {
	repo   repositories.ProductRepository
	groups repositories.ProductGroupRepository
}

func NewProductService(repo repositories.ProductRepository, groups repositories.ProductGroupRepository) *ProductService {
	return &ProductService{repo: repo, groups: groups}
}

func (s *ProductService) ListProducts(ctx context.Context, p *models.ListProductsParams) ([]models.Product, models.Pagination, error) {
	return s.repo.List(ctx, p)
}

func (s *ProductService) RetrieveProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, body *models.ProductPost) (*models.Product, error) {
	if err := s.checkGroup(ctx, body.ProductGroupID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:           body.Name,
		Version:        body.Version,
		Description:    body.Description,
		ProductGroupID: body.ProductGroupID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, body *models.ProductPatch) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", id), "Product not found")
	}

	if body.ProductGroupID != nil {
		if err := s.checkGroup(ctx, *body.ProductGroupID); err != nil {
			return nil, err
		}
		product.ProductGroupID = *body.ProductGroupID
	}
	if body.Name != nil {
		product.Name = *body.Name
	}
	if body.Version != nil {
		product.Version = *body.Version
	}
	if body.Description != nil {
		product.Description = *body.Description
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return problem.NewNotFound(fmt.Sprintf("%d", id), "Product not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) checkGroup(ctx context.Context, id uint) error {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return problem.NewBadRequest("productGroupId", "Product group not found",
			problem.InvalidParam{Name: "productGroupId", Reason: fmt.Sprintf("product group %d does not exist", id)},
		)
	}
	return nil
}
