package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/constants"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// ErrNoTransaction is returned when Generate runs outside a transaction.
var ErrNoTransaction = errors.New("contract number generation requires a transaction")

// ContractNumberGenerator derives the next PREFIX-NNNNN number from the contracts table.
//
// The most recently inserted contract row (by ID, not by number) is locked FOR UPDATE, so
// concurrent generators queue behind each other until the holder commits its insert.
// The unique index on contracts.number catches anything that slips through.
type ContractNumberGenerator struct {
	db     *gorm.DB
	prefix string
	logger logger.Interface
}

// NewContractNumberGenerator creates a generator for the given prefix ("V" when empty).
func NewContractNumberGenerator(db *gorm.DB, prefix string, logger logger.Interface) *ContractNumberGenerator {
	if prefix == "" {
		prefix = constants.DefaultContractNumberPrefix
	}
	return &ContractNumberGenerator{
		db:     db,
		prefix: prefix,
		logger: logger,
	}
}

var _ contract.NumberGenerator = (*ContractNumberGenerator)(nil)

// Generate returns the next contract number. ctx must carry the transaction that
// will insert the contract.
func (g *ContractNumberGenerator) Generate(ctx context.Context) (string, error) {
	if !db.InTransaction(ctx) {
		return "", ErrNoTransaction
	}
	tx := db.GetTxFromContext(ctx, g.db)

	var last []models.ContractModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id DESC").
		Limit(1).
		Find(&last).Error; err != nil {
		return "", fmt.Errorf("failed to lock latest contract: %w", err)
	}

	if len(last) == 0 {
		return contract.FormatNumber(g.prefix, 1), nil
	}

	if seq, ok := contract.ParseNumber(g.prefix, last[0].Number); ok {
		return contract.FormatNumber(g.prefix, seq+1), nil
	}

	var total int64
	if err := tx.Model(&models.ContractModel{}).Count(&total).Error; err != nil {
		return "", fmt.Errorf("failed to count contracts: %w", err)
	}
	g.logger.Warnw("latest contract number does not match sequence format, falling back to count",
		"contract_id", last[0].ID,
		"number", last[0].Number,
		"total", total,
	)
	return contract.FormatNumber(g.prefix, int(total)+1), nil
}
