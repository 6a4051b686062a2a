package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"gorm.io/gorm"
)

type ArtifactRepository interface {
	List(ctx context.Context, p *models.ListArtifactsParams) ([]models.Artifact, models.Pagination, error)
	GetByID(ctx context.Context, id uint) (*models.Artifact, error)
	Create(ctx context.Context, artifact *models.Artifact) error
	Update(ctx context.Context, artifact *models.Artifact) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*models.ArtifactStats, error)
	MarkStaleFailed(ctx context.Context, olderThan time.Duration) (int64, error)
}

type artifactRepository struct {
	db *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) ArtifactRepository {
	return &artifactRepository{db: db}
}

func (r *artifactRepository) List(ctx context.Context, p *models.ListArtifactsParams) ([]models.Artifact, models.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Artifact{})
	if p.VariantID != nil {
		q = q.Where("variant_id = ?", *p.VariantID)
	}
	if p.ArtifactType != nil && *p.ArtifactType != "" {
		q = q.Where("artifact_type = ?", *p.ArtifactType)
	}
	if p.Status != nil && *p.Status != "" {
		q = q.Where("status = ?", *p.Status)
	}
	if p.Region != nil && *p.Region != "" {
		q = q.Where("region LIKE ?", "%"+*p.Region+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var artifacts []models.Artifact
	err := q.Order("created_at DESC, id DESC").
		Limit(p.PerPage).
		Offset((p.Page - 1) * p.PerPage).
		Find(&artifacts).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return artifacts, paginate(p.Page, p.PerPage, int(total)), nil
}

func (r *artifactRepository) GetByID(ctx context.Context, id uint) (*models.Artifact, error) {
	var artifact models.Artifact
	err := r.db.WithContext(ctx).First(&artifact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (r *artifactRepository) Create(ctx context.Context, artifact *models.Artifact) error {
	return r.db.WithContext(ctx).Create(artifact).Error
}

func (r *artifactRepository) Update(ctx context.Context, artifact *models.Artifact) error {
	return r.db.WithContext(ctx).Save(artifact).Error
}

func (r *artifactRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Artifact{}, id).Error
}

// Stats aggregates artifact counts per type and status plus the total size.
func (r *artifactRepository) Stats(ctx context.Context) (*models.ArtifactStats, error) {
	type bucket struct {
		Key   string
		Count int64
	}

	stats := &models.ArtifactStats{
		ByType:   map[models.ArtifactType]int64{},
		ByStatus: map[models.ArtifactStatus]int64{},
	}

	var byType []bucket
	err := r.db.WithContext(ctx).Model(&models.Artifact{}).
		Select("artifact_type AS key, COUNT(*) AS count").
		Group("artifact_type").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[models.ArtifactType(b.Key)] = b.Count
		stats.TotalArtifacts += b.Count
	}

	var byStatus []bucket
	err = r.db.WithContext(ctx).Model(&models.Artifact{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[models.ArtifactStatus(b.Key)] = b.Count
	}

	var totalSize *int64
	err = r.db.WithContext(ctx).Model(&models.Artifact{}).
		Select("SUM(size_bytes)").
		Scan(&totalSize).Error
	if err != nil {
		return nil, err
	}
	if totalSize != nil {
		stats.TotalSizeBytes = *totalSize
	}

	return stats, nil
}

// MarkStaleFailed flags artifacts stuck in pending/building for longer than
// olderThan as failed. Returns the number of rows updated.
func (r *artifactRepository) MarkStaleFailed(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := r.db.WithContext(ctx).Model(&models.Artifact{}).
		Where("status IN ?", []models.ArtifactStatus{models.StatusPending, models.StatusBuilding}).
		Where("updated_at < ?", cutoff).
		Update("status", models.StatusFailed)
	return res.RowsAffected, res.Error
}
