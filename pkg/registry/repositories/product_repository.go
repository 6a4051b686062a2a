package repositories

import (
	"context"
	"errors"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
	"gorm.io/gorm"
)

type ProductRepository interface {
	List(ctx context.Context, p *models.ListProductsParams) ([]models.Product, models.Pagination, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context, p *models.ListProductsParams) ([]models.Product, models.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if p.ProductGroupID != nil {
		q = q.Where("product_group_id = ?", *p.ProductGroupID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}

	var products []models.Product
	err := q.Order("created_at DESC, id DESC").
		Limit(p.PerPage).
		Offset((p.Page - 1) * p.PerPage).
		Find(&products).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return products, paginate(p.Page, p.PerPage, int(total)), nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variantIDs := tx.Model(&models.Variant{}).Select("id").Where("product_id = ?", id)

		if err := tx.Where("variant_id IN (?)", variantIDs).Delete(&models.Artifact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}
