package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubGroupRepo mocks ProductGroupRepository for controller tests
type stubGroupRepo struct {
	listFunc     func(ctx context.Context, page, perPage int) ([]models.ProductGroup, models.Pagination, error)
	getFunc      func(ctx context.Context, id uint) (*models.ProductGroup, error)
	getProdFunc  func(ctx context.Context, id uint) (*models.ProductGroup, error)
	findNameFunc func(ctx context.Context, name string) (*models.ProductGroup, error)
	createFunc   func(ctx context.Context, group *models.ProductGroup) error
}

func (s *stubGroupRepo) List(ctx context.Context, page, perPage int) ([]models.ProductGroup, models.Pagination, error) {
	return s.listFunc(ctx, page, perPage)
}
func (s *stubGroupRepo) GetByID(ctx context.Context, id uint) (*models.ProductGroup, error) {
	return s.getFunc(ctx, id)
}
func (s *stubGroupRepo) GetWithProducts(ctx context.Context, id uint) (*models.ProductGroup, error) {
	return s.getProdFunc(ctx, id)
}
func (s *stubGroupRepo) FindByName(ctx context.Context, name string) (*models.ProductGroup, error) {
	if s.findNameFunc == nil {
		return nil, nil
	}
	return s.findNameFunc(ctx, name)
}
func (s *stubGroupRepo) Create(ctx context.Context, group *models.ProductGroup) error {
	if s.createFunc == nil {
		group.ID = 1
		return nil
	}
	return s.createFunc(ctx, group)
}

// unused
func (s *stubGroupRepo) Update(ctx context.Context, group *models.ProductGroup) error { return nil }
func (s *stubGroupRepo) Delete(ctx context.Context, id uint) error                    { return nil }

func newGroupController(repo *stubGroupRepo) *ProductGroupController {
	return NewProductGroupController(services.NewProductGroupService(repo))
}

func TestListProductGroups_Handler(t *testing.T) {
	repo := &stubGroupRepo{
		listFunc: func(ctx context.Context, page, perPage int) ([]models.ProductGroup, models.Pagination, error) {
			groups := []models.ProductGroup{
				{ID: 1, Name: "rlc"},
				{ID: 2, Name: "sig-hpc"},
			}
			pag := models.Pagination{CurrentPage: page, RecordsPerPage: perPage, TotalPages: 1, TotalRecords: 2}
			return groups, pag, nil
		},
	}
	ctrl := newGroupController(repo)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("GET", "/api/product-groups?page=1&perPage=50", nil)

	resp, err := ctrl.ListProductGroups(ctx, &models.ListProductGroupsParams{Page: 1, PerPage: 50})
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
}

func TestRetrieveProductGroup_Handler(t *testing.T) {
	// success case
	repo := &stubGroupRepo{
		getFunc: func(ctx context.Context, id uint) (*models.ProductGroup, error) {
			return &models.ProductGroup{ID: id, Name: "rlc"}, nil
		},
	}
	ctrl := newGroupController(repo)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("GET", "/api/product-groups/1", nil)

	resp, err := ctrl.RetrieveProductGroup(ctx, &models.ProductGroupParams{ID: 1})
	assert.NoError(t, err)
	assert.Equal(t, "rlc", resp.Name)

	// not found case
	repo2 := &stubGroupRepo{
		getFunc: func(ctx context.Context, id uint) (*models.ProductGroup, error) { return nil, nil },
	}
	ctrl2 := newGroupController(repo2)

	ctx2, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx2.Request = httptest.NewRequest("GET", "/api/product-groups/99", nil)

	resp2, err2 := ctrl2.RetrieveProductGroup(ctx2, &models.ProductGroupParams{ID: 99})
	assert.Nil(t, resp2)
	apiErr, ok := err2.(problem.APIError)
	assert.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
}

func TestCreateProductGroup_DuplicateName(t *testing.T) {
	repo := &stubGroupRepo{
		findNameFunc: func(ctx context.Context, name string) (*models.ProductGroup, error) {
			return &models.ProductGroup{ID: 7, Name: name}, nil
		},
	}
	ctrl := newGroupController(repo)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("POST", "/api/product-groups", nil)

	resp, err := ctrl.CreateProductGroup(ctx, &models.ProductGroupPost{Name: "rlc"})
	assert.Nil(t, resp)
	apiErr, ok := err.(problem.APIError)
	assert.True(t, ok)
	assert.Equal(t, 400, apiErr.Status)
}
