package mappers

import (
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/mapper"
)

// ContractMapper handles the conversion between contract entities and persistence models.
type ContractMapper interface {
	ToEntity(model *models.ContractModel) (*contract.Contract, error)
	ToModel(entity *contract.Contract) *models.ContractModel
	ToEntities(models []*models.ContractModel) ([]*contract.Contract, error)

	AssignmentToEntity(model *models.ContractAssignmentModel) (*contract.Assignment, error)
	AssignmentToModel(entity *contract.Assignment) *models.ContractAssignmentModel
	AssignmentsToEntities(models []*models.ContractAssignmentModel) ([]*contract.Assignment, error)
}

// ContractMapperImpl is the concrete implementation of ContractMapper.
type ContractMapperImpl struct{}

// NewContractMapper creates a new contract mapper.
func NewContractMapper() ContractMapper {
	return &ContractMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *ContractMapperImpl) ToEntity(model *models.ContractModel) (*contract.Contract, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := contract.ReconstructContract(
		model.ID,
		model.Number,
		model.Status,
		fromDate(model.StartDate),
		fromDatePtr(model.EndDate),
		model.TenantID,
		model.LegacyUnitID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct contract entity: %w", err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *ContractMapperImpl) ToModel(entity *contract.Contract) *models.ContractModel {
	if entity == nil {
		return nil
	}

	return &models.ContractModel{
		ID:           entity.ID(),
		Number:       entity.Number(),
		Status:       entity.Status().String(),
		StartDate:    toDate(entity.Start()),
		EndDate:      toDatePtr(entity.End()),
		TenantID:     entity.TenantID(),
		LegacyUnitID: entity.LegacyUnitID(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

// ToEntities converts multiple persistence models to domain entities.
func (m *ContractMapperImpl) ToEntities(modelList []*models.ContractModel) ([]*contract.Contract, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ContractModel) uint { return model.ID })
}

// AssignmentToEntity converts an assignment model to a domain entity.
func (m *ContractMapperImpl) AssignmentToEntity(model *models.ContractAssignmentModel) (*contract.Assignment, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := contract.ReconstructAssignment(
		model.ID,
		model.ContractID,
		model.UnitID,
		model.Price,
		model.Quantity,
		fromDatePtr(model.ValidFrom),
		fromDatePtr(model.ValidTo),
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct contract assignment entity: %w", err)
	}
	return entity, nil
}

// AssignmentToModel converts an assignment entity to a persistence model.
func (m *ContractMapperImpl) AssignmentToModel(entity *contract.Assignment) *models.ContractAssignmentModel {
	if entity == nil {
		return nil
	}

	return &models.ContractAssignmentModel{
		ID:         entity.ID(),
		ContractID: entity.ContractID(),
		UnitID:     entity.UnitID(),
		Price:      entity.Price(),
		Quantity:   entity.Quantity(),
		ValidFrom:  toDatePtr(entity.ValidFrom()),
		ValidTo:    toDatePtr(entity.ValidTo()),
		Status:     entity.Status().String(),
		CreatedAt:  entity.CreatedAt(),
		UpdatedAt:  entity.UpdatedAt(),
	}
}

// AssignmentsToEntities converts multiple assignment models to domain entities.
func (m *ContractMapperImpl) AssignmentsToEntities(modelList []*models.ContractAssignmentModel) ([]*contract.Assignment, error) {
	return mapper.MapSlicePtrWithID(modelList, m.AssignmentToEntity, func(model *models.ContractAssignmentModel) uint { return model.ID })
}
