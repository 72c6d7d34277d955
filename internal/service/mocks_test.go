// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/cardcrypto"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/repository"
	"github.com/Anastazzi-Grand/bank-rest-main/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Insert(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	args := m.Called(ctx, q, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Card, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) GetByOwnerAndID(ctx context.Context, q repository.DBExecutor, ownerID, id int64) (*domain.Card, error) {
	args := m.Called(ctx, q, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) GetActiveByOwnerAndID(ctx context.Context, q repository.DBExecutor, ownerID, id int64) (*domain.Card, error) {
	args := m.Called(ctx, q, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListByOwner(ctx context.Context, q repository.DBExecutor, ownerID int64, limit, offset int) ([]domain.Card, int64, error) {
	args := m.Called(ctx, q, ownerID, limit, offset)
	return args.Get(0).([]domain.Card), args.Get(1).(int64), args.Error(2)
}

func (m *MockCardRepository) ListByStatus(ctx context.Context, q repository.DBExecutor, status domain.CardStatus, limit, offset int) ([]domain.Card, int64, error) {
	args := m.Called(ctx, q, status, limit, offset)
	return args.Get(0).([]domain.Card), args.Get(1).(int64), args.Error(2)
}

func (m *MockCardRepository) ListAll(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Card, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.Card), args.Get(1).(int64), args.Error(2)
}

func (m *MockCardRepository) UpdateIfVersion(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	args := m.Called(ctx, q, card)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteByID(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockTxController is a mock transaction controller. It embeds
// MockDBExecutor so the service's DBExecutor type assertion succeeds.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// testService bundles a service instance with the mocks behind it.
type testService struct {
	service  CardService
	userRepo *MockUserRepository
	cardRepo *MockCardRepository
	executor *MockDBExecutor
	tx       *MockTxController
}

// newTestService wires a CardService whose transaction plumbing is backed by
// the returned MockTxController.
func newTestService(t *testing.T) *testService {
	t.Helper()

	ts := &testService{
		userRepo: new(MockUserRepository),
		cardRepo: new(MockCardRepository),
		executor: new(MockDBExecutor),
		tx:       new(MockTxController),
	}

	codec, err := cardcrypto.NewCodec(map[uint8][]byte{1: make([]byte, cardcrypto.KeySize)})
	if err != nil {
		panic(err)
	}

	ts.service = NewCardService(
		nil, // BeginTxx never reached; beginTx below short-circuits
		ts.executor,
		ts.userRepo,
		ts.cardRepo,
		codec,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return ts.tx, nil
		},
		func(tx db.TxController) error {
			return ts.tx.Commit()
		},
		func(tx db.TxController) {
			_ = ts.tx.Rollback()
		},
	)
	return ts
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
