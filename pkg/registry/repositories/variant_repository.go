package repositories

import (
	"context"
	"errors"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"gorm.io/gorm"
)

type VariantRepository interface {
	List(ctx context.Context, p *models.ListVariantsParams) ([]models.Variant, models.Pagination, error)
	GetByID(ctx context.Context, id uint) (*models.Variant, error)
	Create(ctx context.Context, variant *models.Variant) error
	Update(ctx context.Context, variant *models.Variant) error
	Delete(ctx context.Context, id uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) List(ctx context.Context, p *models.ListVariantsParams) ([]models.Variant, models.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Variant{})
	if p.ProductID != nil {
		q = q.Where("product_id = ?", *p.ProductID)
	}
	if p.Architecture != nil && *p.Architecture != "" {
		q = q.Where("architecture = ?", *p.Architecture)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var variants []models.Variant
	err := q.Order("created_at DESC, id DESC").
		Limit(p.PerPage).
		Offset((p.Page - 1) * p.PerPage).
		Find(&variants).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return variants, paginate(p.Page, p.PerPage, int(total)), nil
}

func (r *variantRepository) GetByID(ctx context.Context, id uint) (*models.Variant, error) {
	var variant models.Variant
	err := r.db.WithContext(ctx).First(&variant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) Create(ctx context.Context, variant *models.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *variantRepository) Update(ctx context.Context, variant *models.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *variantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variant_id = ?", id).Delete(&models.Artifact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Variant{}, id).Error
	})
}
