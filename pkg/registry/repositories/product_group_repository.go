package repositories

import (
	"context"
	"errors"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"gorm.io/gorm"
)

type ProductGroupRepository interface {
	List(ctx context.Context, page, perPage int) ([]models.ProductGroup, models.Pagination, error)
	GetByID(ctx context.Context, id uint) (*models.ProductGroup, error)
	GetWithProducts(ctx context.Context, id uint) (*models.ProductGroup, error)
	FindByName(ctx context.Context, name string) (*models.ProductGroup, error)
	Create(ctx context.Context, group *models.ProductGroup) error
	Update(ctx context.Context, group *models.ProductGroup) error
	Delete(ctx context.Context, id uint) error
}

type productGroupRepository struct {
	db *gorm.DB
}

func NewProductGroupRepository(db *gorm.DB) ProductGroupRepository {
	return &productGroupRepository{db: db}
}

func (r *productGroupRepository) List(ctx context.Context, page, perPage int) ([]models.ProductGroup, models.Pagination, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProductGroup{}).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var groups []models.ProductGroup
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&groups).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return groups, paginate(page, perPage, int(total)), nil
}

func (r *productGroupRepository) GetByID(ctx context.Context, id uint) (*models.ProductGroup, error) {
	var group models.ProductGroup
	err := r.db.WithContext(ctx).First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *productGroupRepository) GetWithProducts(ctx context.Context, id uint) (*models.ProductGroup, error) {
	var group models.ProductGroup
	err := r.db.WithContext(ctx).Preload("Products").First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *productGroupRepository) FindByName(ctx context.Context, name string) (*models.ProductGroup, error) {
	var group models.ProductGroup
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *productGroupRepository) Create(ctx context.Context, group *models.ProductGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *productGroupRepository) Update(ctx context.Context, group *models.ProductGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes the group and everything below it in one transaction.
func (r *productGroupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productIDs := tx.Model(&models.Product{}).Select("id").Where("product_group_id = ?", id)
		variantIDs := tx.Model(&models.Variant{}).Select("id").Where("product_id IN (?)", productIDs)

		if err := tx.Where("variant_id IN (?)", variantIDs).Delete(&models.Artifact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id IN (?)", productIDs).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_group_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ProductGroup{}, id).Error
	})
}
