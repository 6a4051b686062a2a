package models

import "time"

// ProductGroup is the top-level organisational bucket for related products.
type ProductGroup struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Products []Product `gorm:"foreignKey:ProductGroupID;constraint:OnDelete:CASCADE" json:"-"`
}

type ProductGroupParams struct {
	ID uint `path:"id"`
}

type ProductGroupPost struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ProductGroupPatch carries a partial update; nil fields are left untouched.
type ProductGroupPatch struct {
	ID          uint    `path:"id" json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ListProductGroupsParams struct {
	Page    int `query:"page"`
	PerPage int `query:"perPage"`
}

// ProductGroupDetail is the expanded view returned by
// GET /product-groups/:id/products.
type ProductGroupDetail struct {
	ProductGroup
	Products []Product `json:"products"`
}
