package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/mappers"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// RentalUnitRepositoryImpl implements the rentalunit.Repository interface.
type RentalUnitRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RentalUnitMapper
	logger logger.Interface
}

// NewRentalUnitRepository creates a new rental unit repository instance.
func NewRentalUnitRepository(db *gorm.DB, logger logger.Interface) rentalunit.Repository {
	return &RentalUnitRepositoryImpl{
		db:     db,
		mapper: mappers.NewRentalUnitMapper(),
		logger: logger,
	}
}

// Create creates a new rental unit in the database.
func (r *RentalUnitRepositoryImpl) Create(ctx context.Context, unit *rentalunit.RentalUnit) error {
	model := r.mapper.ToModel(unit)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create rental unit in database", "error", err)
		return fmt.Errorf("failed to create rental unit: %w", err)
	}

	if err := unit.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set rental unit ID: %w", err)
	}

	r.logger.Infow("rental unit created", "id", model.ID, "name", model.Name, "capacity", model.Capacity)
	return nil
}

// Update persists name, kind, capacity and parent. The available flag is owned by UpdateAvailability.
func (r *RentalUnitRepositoryImpl) Update(ctx context.Context, unit *rentalunit.RentalUnit) error {
	model := r.mapper.ToModel(unit)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.RentalUnitModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":       model.Name,
			"kind":       model.Kind,
			"capacity":   model.Capacity,
			"parent_id":  model.ParentID,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update rental unit", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update rental unit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rentalunit.NewNotFoundError(model.ID)
	}
	return nil
}

// UpdateAvailability writes only the available column.
func (r *RentalUnitRepositoryImpl) UpdateAvailability(ctx context.Context, id uint, available bool) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.RentalUnitModel{}).
		Where("id = ?", id).
		UpdateColumn("available", available)
	if result.Error != nil {
		r.logger.Errorw("failed to update rental unit availability", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update rental unit availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rentalunit.NewNotFoundError(id)
	}
	return nil
}

// GetByID retrieves a rental unit by its ID.
func (r *RentalUnitRepositoryImpl) GetByID(ctx context.Context, id uint) (*rentalunit.RentalUnit, error) {
	return r.first(db.GetTxFromContext(ctx, r.db), id)
}

// GetByIDForUpdate retrieves a rental unit and locks its row until the transaction ends.
func (r *RentalUnitRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*rentalunit.RentalUnit, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *RentalUnitRepositoryImpl) first(tx *gorm.DB, id uint) (*rentalunit.RentalUnit, error) {
	var model models.RentalUnitModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get rental unit by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get rental unit: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map rental unit model to entity", "id", id, "error", err)
		return nil, fmt.Errorf("failed to map rental unit: %w", err)
	}
	return entity, nil
}

// GetByIDs retrieves rental units by their IDs.
func (r *RentalUnitRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*rentalunit.RentalUnit, error) {
	if len(ids) == 0 {
		return []*rentalunit.RentalUnit{}, nil
	}

	var modelList []*models.RentalUnitModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to get rental units by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get rental units: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

// ListChildIDs returns the IDs of the direct children of all parentIDs in one query.
func (r *RentalUnitRepositoryImpl) ListChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	if len(parentIDs) == 0 {
		return []uint{}, nil
	}

	var ids []uint
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.RentalUnitModel{}).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		r.logger.Errorw("failed to list child rental units", "parents", len(parentIDs), "error", err)
		return nil, fmt.Errorf("failed to list child rental units: %w", err)
	}
	return ids, nil
}

// ListAfter returns up to limit units with ID greater than afterID, ordered by ID.
func (r *RentalUnitRepositoryImpl) ListAfter(ctx context.Context, afterID uint, limit int) ([]*rentalunit.RentalUnit, error) {
	var modelList []*models.RentalUnitModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list rental units", "after_id", afterID, "error", err)
		return nil, fmt.Errorf("failed to list rental units: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
