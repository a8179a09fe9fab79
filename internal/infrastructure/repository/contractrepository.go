package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/mappers"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	apperrors "github.com/mietwerk/mietwerk/internal/shared/errors"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// ContractRepositoryImpl implements the contract.Repository interface.
type ContractRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ContractMapper
	logger logger.Interface
}

// NewContractRepository creates a new contract repository instance.
func NewContractRepository(db *gorm.DB, logger logger.Interface) contract.Repository {
	return &ContractRepositoryImpl{
		db:     db,
		mapper: mappers.NewContractMapper(),
		logger: logger,
	}
}

// Create creates a new contract in the database.
func (r *ContractRepositoryImpl) Create(ctx context.Context, c *contract.Contract) error {
	model := r.mapper.ToModel(c)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			r.logger.Warnw("contract number collision", "number", model.Number, "error", err)
			return apperrors.NewDuplicateIdentifierError("contract number already exists", model.Number)
		}
		r.logger.Errorw("failed to create contract in database", "error", err)
		return fmt.Errorf("failed to create contract: %w", err)
	}

	if err := c.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set contract ID: %w", err)
	}

	r.logger.Infow("contract created", "id", model.ID, "number", model.Number, "status", model.Status)
	return nil
}

// Update persists status, dates and legacy link. The number is immutable and never written.
func (r *ContractRepositoryImpl) Update(ctx context.Context, c *contract.Contract) error {
	model := r.mapper.ToModel(c)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.ContractModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":         model.Status,
			"start_date":     model.StartDate,
			"end_date":       model.EndDate,
			"tenant_id":      model.TenantID,
			"legacy_unit_id": model.LegacyUnitID,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update contract", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return contract.NewNotFoundError(model.ID)
	}
	return nil
}

// Delete removes the contract together with its assignments.
func (r *ContractRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("contract_id = ?", id).Delete(&models.ContractAssignmentModel{}).Error; err != nil {
		r.logger.Errorw("failed to delete contract assignments", "contract_id", id, "error", err)
		return fmt.Errorf("failed to delete contract assignments: %w", err)
	}

	result := tx.Delete(&models.ContractModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete contract", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return contract.NewNotFoundError(id)
	}

	r.logger.Infow("contract deleted", "id", id)
	return nil
}

// GetByID retrieves a contract by its ID.
func (r *ContractRepositoryImpl) GetByID(ctx context.Context, id uint) (*contract.Contract, error) {
	var model models.ContractModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get contract by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// GetByNumber retrieves a contract by its number.
func (r *ContractRepositoryImpl) GetByNumber(ctx context.Context, number string) (*contract.Contract, error) {
	var model models.ContractModel
	if err := db.GetTxFromContext(ctx, r.db).Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get contract by number", "number", number, "error", err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// GetByIDs retrieves contracts by their IDs.
func (r *ContractRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*contract.Contract, error) {
	if len(ids) == 0 {
		return []*contract.Contract{}, nil
	}

	var modelList []*models.ContractModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to get contracts by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get contracts: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

// ListByLegacyUnitIDs returns contracts whose legacy link points at one of unitIDs.
func (r *ContractRepositoryImpl) ListByLegacyUnitIDs(ctx context.Context, unitIDs []uint, statuses ...contract.Status) ([]*contract.Contract, error) {
	if len(unitIDs) == 0 {
		return []*contract.Contract{}, nil
	}

	query := db.GetTxFromContext(ctx, r.db).Where("legacy_unit_id IN ?", unitIDs)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}

	var modelList []*models.ContractModel
	if err := query.Order("id ASC").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list legacy contracts", "units", len(unitIDs), "error", err)
		return nil, fmt.Errorf("failed to list legacy contracts: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func statusStrings(statuses []contract.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
