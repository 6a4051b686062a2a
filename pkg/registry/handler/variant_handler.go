package handler

import (
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/helpers/util"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/gin-gonic/gin"
)

// VariantController binds HTTP requests to the VariantService.
type VariantController struct {
	Service *services.VariantService
}

func NewVariantController(s *services.VariantService) *VariantController {
	return &VariantController{Service: s}
}

// ListVariants handles GET /variants
func (c *VariantController) ListVariants(ctx *gin.Context, p *models.ListVariantsParams) ([]models.Variant, error) {
	p.Page, p.PerPage = util.NormalizePage(p.Page, p.PerPage)
	variants, pagination, err := c.Service.ListVariants(ctx.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	util.SetPaginationHeaders(ctx.Request, ctx.Header, pagination)
	return variants, nil
}

// RetrieveVariant handles GET /variants/:id
func (c *VariantController) RetrieveVariant(ctx *gin.Context, params *models.VariantParams) (*models.Variant, error) {
	variant, err := c.Service.RetrieveVariant(ctx.Request.Context(), params.ID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", params.ID), "Variant not found")
	}
	return variant, nil
}

// CreateVariant handles POST /variants
func (c *VariantController) CreateVariant(ctx *gin.Context, body *models.VariantPost) (*models.Variant, error) {
	return c.Service.CreateVariant(ctx.Request.Context(), body)
}

// UpdateVariant handles PATCH /variants/:id
func (c *VariantController) UpdateVariant(ctx *gin.Context, body *models.VariantPatch) (*models.Variant, error) {
	return c.Service.UpdateVariant(ctx.Request.Context(), body.ID, body)
}

// DeleteVariant handles DELETE /variants/:id
func (c *VariantController) DeleteVariant(ctx *gin.Context, params *models.VariantParams) (*models.Message, error) {
	if err := c.Service.DeleteVariant(ctx.Request.Context(), params.ID); err != nil {
		return nil, err
	}
	return &models.Message{Message: "Variant deleted successfully"}, nil
}
