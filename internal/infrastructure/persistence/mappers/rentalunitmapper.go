package mappers

import (
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/mapper"
)

// RentalUnitMapper handles the conversion between rental unit entities and persistence models.
type RentalUnitMapper interface {
	ToEntity(model *models.RentalUnitModel) (*rentalunit.RentalUnit, error)
	ToModel(entity *rentalunit.RentalUnit) *models.RentalUnitModel
	ToEntities(models []*models.RentalUnitModel) ([]*rentalunit.RentalUnit, error)
}

// RentalUnitMapperImpl is the concrete implementation of RentalUnitMapper.
type RentalUnitMapperImpl struct{}

// NewRentalUnitMapper creates a new rental unit mapper.
func NewRentalUnitMapper() RentalUnitMapper {
	return &RentalUnitMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *RentalUnitMapperImpl) ToEntity(model *models.RentalUnitModel) (*rentalunit.RentalUnit, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := rentalunit.ReconstructRentalUnit(
		model.ID,
		model.Name,
		model.Kind,
		model.Capacity,
		model.Available,
		model.ParentID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct rental unit entity: %w", err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *RentalUnitMapperImpl) ToModel(entity *rentalunit.RentalUnit) *models.RentalUnitModel {
	if entity == nil {
		return nil
	}

	return &models.RentalUnitModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Kind:      entity.Kind().String(),
		Capacity:  entity.Capacity(),
		Available: entity.Available(),
		ParentID:  entity.ParentID(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

// ToEntities converts multiple persistence models to domain entities.
func (m *RentalUnitMapperImpl) ToEntities(modelList []*models.RentalUnitModel) ([]*rentalunit.RentalUnit, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.RentalUnitModel) uint { return model.ID })
}
