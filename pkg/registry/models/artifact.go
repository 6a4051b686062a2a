package models

import (
	"time"

	"gorm.io/datatypes"
)

// ArtifactType classifies what kind of build output an artifact is.
type ArtifactType string

const (
	ArtifactBaseImage    ArtifactType = "base_image"
	ArtifactCloudImage   ArtifactType = "cloud_image"
	ArtifactRegionCopy   ArtifactType = "region_copy"
	ArtifactAccountShare ArtifactType = "account_share"
)

func (t ArtifactType) IsValid() bool {
	switch t {
	case ArtifactBaseImage, ArtifactCloudImage, ArtifactRegionCopy, ArtifactAccountShare:
		return true
	}
	return false
}

// ArtifactStatus tracks the build/deployment state of an artifact.
type ArtifactStatus string

const (
	StatusPending    ArtifactStatus = "pending"
	StatusBuilding   ArtifactStatus = "building"
	StatusCompleted  ArtifactStatus = "completed"
	StatusFailed     ArtifactStatus = "failed"
	StatusDeprecated ArtifactStatus = "deprecated"
)

func (s ArtifactStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusBuilding, StatusCompleted, StatusFailed, StatusDeprecated:
		return true
	}
	return false
}

// Artifact is a concrete build output (image, region copy, ...) of a variant.
type Artifact struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string            `gorm:"size:255;index;not null" json:"name"`
	ArtifactType  ArtifactType      `gorm:"size:50;index;not null" json:"artifactType"`
	Status        ArtifactStatus    `gorm:"size:50;index;not null;default:pending" json:"status"`
	Location      string            `gorm:"size:500" json:"location,omitempty"`
	Region        string            `gorm:"size:100" json:"region,omitempty"`
	AccountID     string            `gorm:"size:100" json:"accountId,omitempty"`
	SizeBytes     *int64            `json:"sizeBytes,omitempty"`
	Checksum      string            `gorm:"size:128" json:"checksum,omitempty"`
	BuildID       string            `gorm:"size:255" json:"buildId,omitempty"`
	BuildMetadata datatypes.JSONMap `gorm:"type:jsonb" json:"buildMetadata,omitempty"`
	VariantID     uint              `gorm:"not null;index" json:"variantId"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`

	Variant *Variant `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"-"`
}

type ArtifactParams struct {
	ID uint `path:"id"`
}

type ArtifactPost struct {
	Name          string         `json:"name" validate:"required"`
	ArtifactType  ArtifactType   `json:"artifactType" validate:"required,oneof=base_image cloud_image region_copy account_share"`
	Status        ArtifactStatus `json:"status" validate:"omitempty,oneof=pending building completed failed deprecated"`
	Location      string         `json:"location"`
	Region        string         `json:"region"`
	AccountID     string         `json:"accountId"`
	SizeBytes     *int64         `json:"sizeBytes"`
	Checksum      string         `json:"checksum"`
	BuildID       string         `json:"buildId"`
	BuildMetadata map[string]any `json:"buildMetadata"`
	VariantID     uint           `json:"variantId" validate:"required"`
}

type ArtifactPatch struct {
	ID            uint            `path:"id" json:"-"`
	Name          *string         `json:"name"`
	ArtifactType  *ArtifactType   `json:"artifactType"`
	Status        *ArtifactStatus `json:"status"`
	Location      *string         `json:"location"`
	Region        *string         `json:"region"`
	AccountID     *string         `json:"accountId"`
	SizeBytes     *int64          `json:"sizeBytes"`
	Checksum      *string         `json:"checksum"`
	BuildID       *string         `json:"buildId"`
	BuildMetadata map[string]any  `json:"buildMetadata"`
	VariantID     *uint           `json:"variantId"`
}

type ListArtifactsParams struct {
	Page         int     `query:"page"`
	PerPage      int     `query:"perPage"`
	VariantID    *uint   `query:"variantId"`
	ArtifactType *string `query:"artifactType"`
	Status       *string `query:"status"`
	Region       *string `query:"region"`
}

// ArtifactStats is the aggregate returned by GET /artifacts/stats/summary.
type ArtifactStats struct {
	ByType         map[ArtifactType]int64   `json:"byType"`
	ByStatus       map[ArtifactStatus]int64 `json:"byStatus"`
	TotalArtifacts int64                    `json:"totalArtifacts"`
	TotalSizeBytes int64                    `json:"totalSizeBytes"`
}
