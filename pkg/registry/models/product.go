package models

import "time"

// Product is a specific image product within a product group.
type Product struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"size:255;index;not null" json:"name"`
	Version        string    `gorm:"size:100" json:"version,omitempty"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	ProductGroupID uint      `gorm:"not null;index" json:"productGroupId"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	ProductGroup *ProductGroup `gorm:"foreignKey:ProductGroupID;constraint:OnDelete:CASCADE" json:"-"`
	Variants     []Variant     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

type ProductParams struct {
	ID uint `path:"id"`
}

type ProductPost struct {
	Name           string `json:"name" validate:"required"`
	Version        string `json:"version"`
	Description    string `json:"description"`
	ProductGroupID uint   `json:"productGroupId" validate:"required"`
}

type ProductPatch struct {
	ID             uint    `path:"id" json:"-"`
	Name           *string `json:"name"`
	Version        *string `json:"version"`
	Description    *string `json:"description"`
	ProductGroupID *uint   `json:"productGroupId"`
}

type ListProductsParams struct {
	Page           int   `query:"page"`
	PerPage        int   `query:"perPage"`
	ProductGroupID *uint `query:"productGroupId"`
}
