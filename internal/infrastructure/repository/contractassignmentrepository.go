package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/mappers"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/constants"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	apperrors "github.com/mietwerk/mietwerk/internal/shared/errors"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/mapper"
)

// ContractAssignmentRepositoryImpl implements the contract.AssignmentRepository interface.
type ContractAssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ContractMapper
	logger logger.Interface
}

// NewContractAssignmentRepository creates a new contract assignment repository instance.
func NewContractAssignmentRepository(db *gorm.DB, logger logger.Interface) contract.AssignmentRepository {
	return &ContractAssignmentRepositoryImpl{
		db:     db,
		mapper: mappers.NewContractMapper(),
		logger: logger,
	}
}

// Create creates a new assignment in the database.
func (r *ContractAssignmentRepositoryImpl) Create(ctx context.Context, a *contract.Assignment) error {
	model := r.mapper.AssignmentToModel(a)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			r.logger.Warnw("duplicate contract assignment", "contract_id", model.ContractID, "unit_id", model.UnitID)
			return apperrors.NewDuplicateIdentifierError("contract already references this rental unit",
				fmt.Sprintf("contract_id=%d unit_id=%d", model.ContractID, model.UnitID))
		}
		r.logger.Errorw("failed to create contract assignment", "error", err)
		return fmt.Errorf("failed to create contract assignment: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set contract assignment ID: %w", err)
	}

	r.logger.Infow("contract assignment created",
		"id", model.ID, "contract_id", model.ContractID, "unit_id", model.UnitID, "quantity", model.Quantity)
	return nil
}

// Update persists price, quantity, validity window and status.
func (r *ContractAssignmentRepositoryImpl) Update(ctx context.Context, a *contract.Assignment) error {
	model := r.mapper.AssignmentToModel(a)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.ContractAssignmentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"price":      model.Price,
			"quantity":   model.Quantity,
			"valid_from": model.ValidFrom,
			"valid_to":   model.ValidTo,
			"status":     model.Status,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update contract assignment", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update contract assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return contract.NewAssignmentNotFoundError(model.ID)
	}
	return nil
}

// Delete removes an assignment.
func (r *ContractAssignmentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ContractAssignmentModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete contract assignment", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete contract assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return contract.NewAssignmentNotFoundError(id)
	}
	return nil
}

// GetByID retrieves an assignment by its ID.
func (r *ContractAssignmentRepositoryImpl) GetByID(ctx context.Context, id uint) (*contract.Assignment, error) {
	var model models.ContractAssignmentModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get contract assignment", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get contract assignment: %w", err)
	}
	return r.mapper.AssignmentToEntity(&model)
}

// GetByContractAndUnit retrieves the assignment of unitID to contractID, if any.
func (r *ContractAssignmentRepositoryImpl) GetByContractAndUnit(ctx context.Context, contractID, unitID uint) (*contract.Assignment, error) {
	var model models.ContractAssignmentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("contract_id = ? AND unit_id = ?", contractID, unitID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get contract assignment", "contract_id", contractID, "unit_id", unitID, "error", err)
		return nil, fmt.Errorf("failed to get contract assignment: %w", err)
	}
	return r.mapper.AssignmentToEntity(&model)
}

// ListByContract returns all assignments of a contract.
func (r *ContractAssignmentRepositoryImpl) ListByContract(ctx context.Context, contractID uint) ([]*contract.Assignment, error) {
	var modelList []*models.ContractAssignmentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("contract_id = ?", contractID).
		Order("id ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list contract assignments", "contract_id", contractID, "error", err)
		return nil, fmt.Errorf("failed to list contract assignments: %w", err)
	}
	return r.mapper.AssignmentsToEntities(modelList)
}

// ListBindingsByUnitIDs returns assignments on unitIDs whose contract is in one of statuses,
// each paired with its contract. It issues two queries regardless of the number of units.
func (r *ContractAssignmentRepositoryImpl) ListBindingsByUnitIDs(ctx context.Context, unitIDs []uint, statuses ...contract.Status) ([]contract.Binding, error) {
	if len(unitIDs) == 0 {
		return []contract.Binding{}, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	assignmentTable := constants.TableContractAssignments
	contractTable := constants.TableContracts

	query := tx.Model(&models.ContractAssignmentModel{}).
		Where(assignmentTable+".unit_id IN ?", unitIDs)
	if len(statuses) > 0 {
		query = query.
			Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.contract_id", contractTable, contractTable, assignmentTable)).
			Where(contractTable+".status IN ?", statusStrings(statuses))
	}

	var assignmentModels []*models.ContractAssignmentModel
	if err := query.Order(assignmentTable + ".id ASC").Find(&assignmentModels).Error; err != nil {
		r.logger.Errorw("failed to list assignments by units", "units", len(unitIDs), "error", err)
		return nil, fmt.Errorf("failed to list assignments by units: %w", err)
	}
	if len(assignmentModels) == 0 {
		return []contract.Binding{}, nil
	}

	contractIDs := make([]uint, 0, len(assignmentModels))
	seen := make(map[uint]struct{}, len(assignmentModels))
	for _, m := range assignmentModels {
		if _, ok := seen[m.ContractID]; ok {
			continue
		}
		seen[m.ContractID] = struct{}{}
		contractIDs = append(contractIDs, m.ContractID)
	}

	var contractModels []*models.ContractModel
	if err := tx.Where("id IN ?", contractIDs).Find(&contractModels).Error; err != nil {
		r.logger.Errorw("failed to load contracts of assignments", "contracts", len(contractIDs), "error", err)
		return nil, fmt.Errorf("failed to load contracts of assignments: %w", err)
	}
	contracts, err := r.mapper.ToEntities(contractModels)
	if err != nil {
		return nil, err
	}
	byID := mapper.IndexBy(contracts, (*contract.Contract).ID)

	assignments, err := r.mapper.AssignmentsToEntities(assignmentModels)
	if err != nil {
		return nil, err
	}

	bindings := make([]contract.Binding, 0, len(assignments))
	for _, a := range assignments {
		c, ok := byID[a.ContractID()]
		if !ok {
			// contract deleted between both queries
			continue
		}
		bindings = append(bindings, contract.Binding{Assignment: a, Contract: c})
	}
	return bindings, nil
}
