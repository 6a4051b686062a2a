package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

// Schema snapshots, frozen at the time of this migration. The live models
// in pkg/registry/models may evolve in later migrations.

type ProductGroup struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:255;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"size:255;index;not null"`
	Version        string `gorm:"size:100"`
	Description    string `gorm:"type:text"`
	ProductGroupID uint   `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ProductGroup ProductGroup `gorm:"foreignKey:ProductGroupID;constraint:OnDelete:CASCADE"`
}

type Variant struct {
	ID           uint              `gorm:"primaryKey;autoIncrement"`
	Name         string            `gorm:"size:255;index;not null"`
	Architecture string            `gorm:"size:50;index;not null"`
	Description  string            `gorm:"type:text"`
	BuildConfig  datatypes.JSONMap `gorm:"type:jsonb"`
	ProductID    uint              `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type Artifact struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"size:255;index;not null"`
	ArtifactType  string `gorm:"size:50;index;not null"`
	Status        string `gorm:"size:50;index;not null;default:pending"`
	Location      string `gorm:"size:500"`
	Region        string `gorm:"size:100"`
	AccountID     string `gorm:"size:100"`
	SizeBytes     *int64
	Checksum      string            `gorm:"size:128"`
	BuildID       string            `gorm:"size:255"`
	BuildMetadata datatypes.JSONMap `gorm:"type:jsonb"`
	VariantID     uint              `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Variant Variant `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&ProductGroup{},
		&Product{},
		&Variant{},
		&Artifact{},
	); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	if err := m.CreateConstraint(&Product{}, "ProductGroup"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&Variant{}, "Product"); err != nil {
		return err
	}
	return m.CreateConstraint(&Artifact{}, "Variant")
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().DropTable(
		&Artifact{},
		&Variant{},
		&Product{},
		&ProductGroup{},
	)
}
