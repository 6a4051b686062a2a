package services

import (
	"context"
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/repositories"
)

// ProductGroupService implements the business rules for product groups.
type ProductGroupService struct {
	repo repositories.ProductGroupRepository
}

func NewProductGroupService(repo repositories.ProductGroupRepository) *ProductGroupService {
	return &ProductGroupService{repo: repo}
}

func (s *ProductGroupService) ListGroups(ctx context.Context, p *models.ListProductGroupsParams) ([]models.ProductGroup, models.Pagination, error) {
	return s.repo.List(ctx, p.Page, p.PerPage)
}

func (s *ProductGroupService) RetrieveGroup(ctx context.Context, id uint) (*models.ProductGroup, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductGroupService) RetrieveGroupWithProducts(ctx context.Context, id uint) (*models.ProductGroupDetail, error) {
	group, err := s.repo.GetWithProducts(ctx, id)
	if err != nil || group == nil {
		return nil, err
	}
	products := group.Products
	if products == nil {
		products = []models.Product{}
	}
	return &models.ProductGroupDetail{ProductGroup: *group, Products: products}, nil
}

func (s *ProductGroupService) CreateGroup(ctx context.Context, body *models.ProductGroupPost) (*models.ProductGroup, error) {
	existing, err := s.repo.FindByName(ctx, body.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, problem.NewBadRequest("name", fmt.Sprintf("product group with name %q already exists", body.Name),
			problem.InvalidParam{Name: "name", Reason: "must be unique"},
		)
	}

	group := &models.ProductGroup{
		Name:        body.Name,
		Description: body.Description,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *ProductGroupService) UpdateGroup(ctx context.Context, id uint, body *models.ProductGroupPatch) (*models.ProductGroup, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", id), "Product group not found")
	}

	if body.Name != nil && *body.Name != group.Name {
		conflict, err := s.repo.FindByName(ctx, *body.Name)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, problem.NewBadRequest("name", fmt.Sprintf("product group with name %q already exists", *body.Name),
				problem.InvalidParam{Name: "name", Reason: "must be unique"},
			)
		}
		group.Name = *body.Name
	}
	if body.Description != nil {
		group.Description = *body.Description
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *ProductGroupService) DeleteGroup(ctx context.Context, id uint) error {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return problem.NewNotFound(fmt.Sprintf("%d", id), "Product group not found")
	}
	return s.repo.Delete(ctx, id)
}
