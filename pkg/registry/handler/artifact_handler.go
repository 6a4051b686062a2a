package handler

import (
	"fmt"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/helpers/util"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/services"
	"github.com/gin-gonic/gin"
)

// ArtifactController binds HTTP requests to the ArtifactService.
type ArtifactController struct {
	Service *services.ArtifactService
}

func NewArtifactController(s *services.ArtifactService) *ArtifactController {
	return &ArtifactController{Service: s}
}

// ListArtifacts handles GET /artifacts
func (c *ArtifactController) ListArtifacts(ctx *gin.Context, p *models.ListArtifactsParams) ([]models.Artifact, error) {
	p.Page, p.PerPage = util.NormalizePage(p.Page, p.PerPage)
	artifacts, pagination, err := c.Service.ListArtifacts(ctx.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	util.SetPaginationHeaders(ctx.Request, ctx.Header, pagination)
	return artifacts, nil
}

// RetrieveArtifact handles GET /artifacts/:id
func (c *ArtifactController) RetrieveArtifact(ctx *gin.Context, params *models.ArtifactParams) (*models.Artifact, error) {
	artifact, err := c.Service.RetrieveArtifact(ctx.Request.Context(), params.ID)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", params.ID), "Artifact not found")
	}
	return artifact, nil
}

// CreateArtifact handles POST /artifacts
func (c *ArtifactController) CreateArtifact(ctx *gin.Context, body *models.ArtifactPost) (*models.Artifact, error) {
	return c.Service.CreateArtifact(ctx.Request.Context(), body)
}

// UpdateArtifact handles PATCH /artifacts/:id
func (c *ArtifactController) UpdateArtifact(ctx *gin.Context, body *models.ArtifactPatch) (*models.Artifact, error) {
	return c.Service.UpdateArtifact(ctx.Request.Context(), body.ID, body)
}

// DeleteArtifact handles DELETE /artifacts/:id
func (c *ArtifactController) DeleteArtifact(ctx *gin.Context, params *models.ArtifactParams) (*models.Message, error) {
	if err := c.Service.DeleteArtifact(ctx.Request.Context(), params.ID); err != nil {
		return nil, err
	}
	return &models.Message{Message: "Artifact deleted successfully"}, nil
}

// ArtifactStats handles GET /artifacts/stats/summary
func (c *ArtifactController) ArtifactStats(ctx *gin.Context) (*models.ArtifactStats, error) {
	return c.Service.Stats(ctx.Request.Context())
}
