package services

import (
	"context"
	"fmt"
	"time"

	problem "github.com/imagedefs/image-definitions-api/pkg/registry/helpers/problem"
	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"github.com/imagedefs/image-definitions-api/pkg/registry/repositories"
	"github.com/teris-io/shortid"
	"gorm.io/datatypes"
)

// ArtifactService implements the business rules for build artifacts.
type ArtifactService struct {
	repo     repositories.ArtifactRepository
	variants repositories.VariantRepository
}

func NewArtifactService(repo repositories.ArtifactRepository, variants repositories.VariantRepository) *ArtifactService {
	return &ArtifactService{repo: repo, variants: variants}
}

func (s *ArtifactService) ListArtifacts(ctx context.Context, p *models.ListArtifactsParams) ([]models.Artifact, models.Pagination, error) {
	return s.repo.List(ctx, p)
}

func (s *ArtifactService) RetrieveArtifact(ctx context.Context, id uint) (*models.Artifact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ArtifactService) CreateArtifact(ctx context.Context, body *models.ArtifactPost) (*models.Artifact, error) {
	if err := s.checkVariant(ctx, body.VariantID); err != nil {
		return nil, err
	}
	if !body.ArtifactType.IsValid() {
		return nil, invalidEnum("artifactType", string(body.ArtifactType))
	}

	status := body.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.IsValid() {
		return nil, invalidEnum("status", string(status))
	}

	// Builds without an external id still need something to correlate on.
	buildID := body.BuildID
	if buildID == "" {
		buildID = shortid.MustGenerate()
	}

	artifact := &models.Artifact{
		Name:          body.Name,
		ArtifactType:  body.ArtifactType,
		Status:        status,
		Location:      body.Location,
		Region:        body.Region,
		AccountID:     body.AccountID,
		SizeBytes:     body.SizeBytes,
		Checksum:      body.Checksum,
		BuildID:       buildID,
		BuildMetadata: datatypes.JSONMap(body.BuildMetadata),
		VariantID:     body.VariantID,
	}
	if err := s.repo.Create(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *ArtifactService) UpdateArtifact(ctx context.Context, id uint, body *models.ArtifactPatch) (*models.Artifact, error) {
	artifact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, problem.NewNotFound(fmt.Sprintf("%d", id), "Artifact not found")
	}

	if body.VariantID != nil {
		if err := s.checkVariant(ctx, *body.VariantID); err != nil {
			return nil, err
		}
		artifact.VariantID = *body.VariantID
	}
	if body.ArtifactType != nil {
		if !body.ArtifactType.IsValid() {
			return nil, invalidEnum("artifactType", string(*body.ArtifactType))
		}
		artifact.ArtifactType = *body.ArtifactType
	}
	if body.Status != nil {
		if !body.Status.IsValid() {
			return nil, invalidEnum("status", string(*body.Status))
		}
		artifact.Status = *body.Status
	}
	if body.Name != nil {
		artifact.Name = *body.Name
	}
	if body.Location != nil {
		artifact.Location = *body.Location
	}
	if body.Region != nil {
		artifact.Region = *body.Region
	}
	if body.AccountID != nil {
		artifact.AccountID = *body.AccountID
	}
	if body.SizeBytes != nil {
		artifact.SizeBytes = body.SizeBytes
	}
	if body.Checksum != nil {
		artifact.Checksum = *body.Checksum
	}
	if body.BuildID != nil {
		artifact.BuildID = *body.BuildID
	}
	if body.BuildMetadata != nil {
		artifact.BuildMetadata = datatypes.JSONMap(body.BuildMetadata)
	}

	if err := s.repo.Update(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *ArtifactService) DeleteArtifact(ctx context.Context, id uint) error {
	artifact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if artifact == nil {
		return problem.NewNotFound(fmt.Sprintf("%d", id), "Artifact not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *ArtifactService) Stats(ctx context.Context) (*models.ArtifactStats, error) {
	return s.repo.Stats(ctx)
}

// SweepStale fails builds that have sat in pending/building beyond window.
func (s *ArtifactService) SweepStale(ctx context.Context, window time.Duration) (int64, error) {
	return s.repo.MarkStaleFailed(ctx, window)
}

func (s *ArtifactService) checkVariant(ctx context.Context, id uint) error {
	variant, err := s.variants.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if variant == nil {
		return problem.NewBadRequest("variantId", "Variant not found",
			problem.InvalidParam{Name: "variantId", Reason: fmt.Sprintf("variant %d does not exist", id)},
		)
	}
	return nil
}

func invalidEnum(name, value string) error {
	return problem.NewBadRequest(name, fmt.Sprintf("invalid value %q for %s", value, name),
		problem.InvalidParam{Name: name, Reason: "unknown enum value"},
	)
}
