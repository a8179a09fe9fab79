package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/testutil"
	"github.com/mietwerk/mietwerk/internal/infrastructure/repository"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

func createWithGeneratedNumber(ctx context.Context, tm *db.TransactionManager, gen *ContractNumberGenerator, repo contract.Repository) (string, error) {
	var number string
	err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := gen.Generate(ctx)
		if err != nil {
			return err
		}
		c, err := contract.NewContract(n, 1, contract.StatusDraft, biztime.Date(2024, 1, 1), nil, nil)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		number = n
		return nil
	})
	return number, err
}

func insertContract(t *testing.T, ctx context.Context, repo contract.Repository, number string) {
	t.Helper()
	c, err := contract.NewContract(number, 1, contract.StatusDraft, biztime.Date(2024, 1, 1), nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))
}

func setup(t *testing.T) (*gorm.DB, *db.TransactionManager, *ContractNumberGenerator, contract.Repository) {
	gdb := testutil.NewTestDB(t)
	log := logger.NewNopLogger()
	return gdb, db.NewTransactionManager(gdb), NewContractNumberGenerator(gdb, "", log), repository.NewContractRepository(gdb, log)
}

func TestContractNumberGenerator_Sequential(t *testing.T) {
	_, tm, gen, repo := setup(t)
	ctx := context.Background()

	first, err := createWithGeneratedNumber(ctx, tm, gen, repo)
	require.NoError(t, err)
	second, err := createWithGeneratedNumber(ctx, tm, gen, repo)
	require.NoError(t, err)

	assert.Equal(t, "V-00001", first)
	assert.Equal(t, "V-00002", second)
}

func TestContractNumberGenerator_UsesInsertionOrder(t *testing.T) {
	_, tm, gen, repo := setup(t)
	ctx := context.Background()

	// lexicographically larger, but inserted first
	insertContract(t, ctx, repo, "V-99999")
	insertContract(t, ctx, repo, "V-100000")

	next, err := createWithGeneratedNumber(ctx, tm, gen, repo)
	require.NoError(t, err)
	assert.Equal(t, "V-100001", next)
}

func TestContractNumberGenerator_FallsBackToCount(t *testing.T) {
	_, tm, gen, repo := setup(t)
	ctx := context.Background()

	insertContract(t, ctx, repo, "V-00001")
	insertContract(t, ctx, repo, "MV-2024/17")

	next, err := createWithGeneratedNumber(ctx, tm, gen, repo)
	require.NoError(t, err)
	assert.Equal(t, "V-00003", next)
}

func TestContractNumberGenerator_CustomPrefix(t *testing.T) {
	gdb, tm, _, repo := setup(t)
	gen := NewContractNumberGenerator(gdb, "MV", logger.NewNopLogger())

	next, err := createWithGeneratedNumber(context.Background(), tm, gen, repo)
	require.NoError(t, err)
	assert.Equal(t, "MV-00001", next)
}

func TestContractNumberGenerator_RequiresTransaction(t *testing.T) {
	_, _, gen, _ := setup(t)

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, ErrNoTransaction)
}

func TestContractNumberGenerator_Concurrent(t *testing.T) {
	_, tm, gen, repo := setup(t)
	ctx := context.Background()
	const n = 20

	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			number, err := createWithGeneratedNumber(ctx, tm, gen, repo)
			numbers[i] = number
			return err
		})
	}
	require.NoError(t, g.Wait())

	seqs := make([]int, 0, n)
	seen := make(map[string]bool, n)
	for _, number := range numbers {
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
		seq, ok := contract.ParseNumber("V", number)
		require.True(t, ok, number)
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	for i, seq := range seqs {
		assert.Equal(t, i+1, seq)
	}
}
