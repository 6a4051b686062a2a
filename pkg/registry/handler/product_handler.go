package handler

import (
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/helpers/util"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/gin-gonic/gin"
)

// ProductController binds HTTP requests to the ProductService.
type ProductController struct {
	Service *services.ProductService
}

func NewProductController(s *services.ProductService) *ProductController {
	return &ProductController{Service: s}
}

// ListProducts handles GET /products
func (c *ProductController) ListProducts(ctx *gin.Context, p *models.ListProductsParams) ([]models.Product, error) {
	p.Page, p.PerPage = util.NormalizePage(p.Page, p.PerPage)
	products, pagination, err := c.Service.ListProducts(ctx.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	util.SetPaginationHeaders(ctx.Request, ctx.Header, pagination)
	return products, nil
}

// RetrieveProduct handles GET /products/:id
func (c *ProductController) RetrieveProduct(ctx *gin.Context, params *models.ProductParams) (*models.Product, error) {
	product, err := c.Service.RetrieveProduct(ctx.Request.Context(), params.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", params.ID), "Product not found")
	}
	return product, nil
}

// CreateProduct handles POST /products
func (c *ProductController) CreateProduct(ctx *gin.Context, body *models.ProductPost) (*models.Product, error) {
	return c.Service.CreateProduct(ctx.Request.Context(), body)
}

// UpdateProduct handles PATCH /products/:id
func (c *ProductController) UpdateProduct(ctx *gin.Context, body *models.ProductPatch) (*models.Product, error) {
	return c.Service.UpdateProduct(ctx.Request.Context(), body.ID, body)
}

// DeleteProduct handles DELETE /products/:id
func (c *ProductController) DeleteProduct(ctx *gin.Context, params *models.ProductParams) (*models.Message, error) {
	if err := c.Service.DeleteProduct(ctx.Request.Context(), params.ID); err != nil {
		return nil, err
	}
	return &models.Message{Message: "Product deleted successfully"}, nil
}
