package models

import (
	"time"

	"gorm.io/datatypes"
)

// Architecture is the CPU architecture a variant is built for.
type Architecture string

const (
	ArchX8664   Architecture = "x86_64"
	ArchAarch64 Architecture = "aarch64"
	ArchPpc64le Architecture = "ppc64le"
	ArchS390x   Architecture = "s390x"
)

func (a Architecture) IsValid() bool {
	switch a {
	case ArchX8664, ArchAarch64, ArchPpc64le, ArchS390x:
		return true
	}
	return false
}

// Variant is a concrete build configuration of a product for one
// architecture.
type Variant struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string            `gorm:"size:255;index;not null" json:"name"`
	Architecture Architecture      `gorm:"size:50;index;not null" json:"architecture"`
	Description  string            `gorm:"type:text" json:"description,omitempty"`
	BuildConfig  datatypes.JSONMap `gorm:"type:jsonb" json:"buildConfig,omitempty"`
	ProductID    uint              `gorm:"not null;index" json:"productId"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`

	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Artifacts []Artifact `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"-"`
}

type VariantParams struct {
	ID uint `path:"id"`
}

type VariantPost struct {
	Name         string         `json:"name" validate:"required"`
	Architecture Architecture   `json:"architecture" validate:"required,oneof=x86_64 aarch64 ppc64le s390x"`
	Description  string         `json:"description"`
	BuildConfig  map[string]any `json:"buildConfig"`
	ProductID    uint           `json:"productId" validate:"required"`
}

type VariantPatch struct {
	ID           uint           `path:"id" json:"-"`
	Name         *string        `json:"name"`
	Architecture *Architecture  `json:"architecture"`
	Description  *string        `json:"description"`
	BuildConfig  map[string]any `json:"buildConfig"`
	ProductID    *uint          `json:"productId"`
}

type ListVariantsParams struct {
	Page         int     `query:"page"`
	PerPage      int     `query:"perPage"`
	ProductID    *uint   `query:"productId"`
	Architecture *string `query:"architecture"`
}
