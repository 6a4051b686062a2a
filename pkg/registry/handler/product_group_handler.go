package handler

import (
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/helpers/util"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/gin-gonic/gin"
)

// ProductGroupController binds HTTP requests to the ProductGroupService.
type ProductGroupController struct {
	Service *services.ProductGroupService
}

func NewProductGroupController(s *services.ProductGroupService) *ProductGroupController {
	return &ProductGroupController{Service: s}
}

// ListProductGroups handles GET /product-groups
func (c *ProductGroupController) ListProductGroups(ctx *gin.Context, p *models.ListProductGroupsParams) ([]models.ProductGroup, error) {
	p.Page, p.PerPage = util.NormalizePage(p.Page, p.PerPage)
	groups, pagination, err := c.Service.ListGroups(ctx.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	util.SetPaginationHeaders(ctx.Request, ctx.Header, pagination)
	return groups, nil
}

// RetrieveProductGroup handles GET /product-groups/:id
func (c *ProductGroupController) RetrieveProductGroup(ctx *gin.Context, params *models.ProductGroupParams) (*models.ProductGroup, error) {
	group, err := c.Service.RetrieveGroup(ctx.Request.Context(), params.ID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", params.ID), "Product group not found")
	}
	return group, nil
}

// RetrieveProductGroupProducts handles GET /product-groups/:id/products
func (c *ProductGroupController) RetrieveProductGroupProducts(ctx *gin.Context, params *models.ProductGroupParams) (*models.ProductGroupDetail, error) {
	detail, err := c.Service.RetrieveGroupWithProducts(ctx.Request.Context(), params.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", params.ID), "Product group not found")
	}
	return detail, nil
}

// CreateProductGroup handles POST /product-groups
func (c *ProductGroupController) CreateProductGroup(ctx *gin.Context, body *models.ProductGroupPost) (*models.ProductGroup, error) {
	return c.Service.CreateGroup(ctx.Request.Context(), body)
}

// UpdateProductGroup handles PATCH /product-groups/:id
func (c *ProductGroupController) UpdateProductGroup(ctx *gin.Context, body *models.ProductGroupPatch) (*models.ProductGroup, error) {
	return c.Service.UpdateGroup(ctx.Request.Context(), body.ID, body)
}

// DeleteProductGroup handles DELETE /product-groups/:id
func (c *ProductGroupController) DeleteProductGroup(ctx *gin.Context, params *models.ProductGroupParams) (*models.Message, error) {
	if err := c.Service.DeleteGroup(ctx.Request.Context(), params.ID); err != nil {
		return nil, err
	}
	return &models.Message{Message: "Product group deleted successfully"}, nil
}
