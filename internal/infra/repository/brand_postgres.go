package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
	"github.com/totegamma/brandproof/internal/infra/database/models"
)

// PostgresBrandRepository keeps brand configuration documents in the
// brand_configs table.
type PostgresBrandRepository struct {
	db *gorm.DB
}

func NewPostgresBrandRepository(db *gorm.DB) *PostgresBrandRepository {
	return &PostgresBrandRepository{db: db}
}

func (r *PostgresBrandRepository) Load(ctx context.Context, brand string) (domain.BrandConfig, error) {
	var row models.BrandConfig
	err := r.db.WithContext(ctx).
		Where("name = ?", brandproof.NormalizeBrand(brand)).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BrandConfig{}, domain.ConfigNotFoundError{Brand: brand}
		}
		return domain.BrandConfig{}, errors.Wrapf(err, "query config for %s", brand)
	}

	var cfg domain.BrandConfig
	if err := json.Unmarshal([]byte(row.Document), &cfg); err != nil {
		return domain.BrandConfig{}, errors.Wrapf(err, "decode config for %s", brand)
	}
	return cfg, nil
}

// Upsert stores cfg under its normalized brand name, replacing any
// previous document.
func (r *PostgresBrandRepository) Upsert(ctx context.Context, cfg domain.BrandConfig) error {
	document, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	row := models.BrandConfig{
		Name:      brandproof.NormalizeBrand(cfg.Brand),
		Document:  string(document),
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row).Error
}

// Seed upserts every configuration found in source and returns how many
// were stored.
func (r *PostgresBrandRepository) Seed(ctx context.Context, source *FileBrandRepository) (int, error) {
	names, err := source.Names()
	if err != nil {
		return 0, errors.Wrap(err, "list seed configs")
	}
	for i, name := range names {
		cfg, err := source.Load(ctx, name)
		if err != nil {
			return i, err
		}
		if err := r.Upsert(ctx, cfg); err != nil {
			return i, errors.Wrapf(err, "seed %s", name)
		}
	}
	return len(names), nil
}
