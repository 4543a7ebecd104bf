package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTx simula uma transação
type MockTx struct {
	committed  bool
	rolledBack bool
}

func (t *MockTx) Commit() error {
	t.committed = true
	return nil
}

func (t *MockTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// MockProductRepository simula o repositório de produtos
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) GetProducts(ctx context.Context, productIDs []string) ([]Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockProductRepository) BeginTx(ctx context.Context) (Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Tx), args.Error(1)
}

func (m *MockProductRepository) GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error) {
	args := m.Called(ctx, tx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockProductRepository) SaveStockChange(ctx context.Context, tx Tx, product *Product, movement *StockMovement) error {
	args := m.Called(ctx, tx, product, movement)
	return args.Error(0)
}

func TestReserve_Success(t *testing.T) {
	repo := new(MockProductRepository)
	tx := &MockTx{}
	product := NewProduct("product-1", "Keyboard", 500, 100)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	repo.On("GetProductForUpdate", mock.Anything, tx, "product-1").Return(product, nil)
	repo.On("SaveStockChange", mock.Anything, tx, product, mock.MatchedBy(func(movement *StockMovement) bool {
		return movement.ProductID == "product-1" &&
			movement.ChangeQuantity == -10 &&
			movement.MovementType == MovementTypeReserved
	})).Return(nil)

	uc := NewProductUseCase(repo)
	updated, err := uc.Reserve(context.Background(), "product-1", 10)

	require.NoError(t, err)
	assert.Equal(t, 90, updated.CurrentStock)
	assert.True(t, tx.committed)
	repo.AssertExpectations(t)
}

func TestReserve_InsufficientStock(t *testing.T) {
	repo := new(MockProductRepository)
	tx := &MockTx{}
	product := NewProduct("product-1", "Keyboard", 500, 3)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	repo.On("GetProductForUpdate", mock.Anything, tx, "product-1").Return(product, nil)

	uc := NewProductUseCase(repo)
	_, err := uc.Reserve(context.Background(), "product-1", 10)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
	repo.AssertNotCalled(t, "SaveStockChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRelease_RecordsMovement(t *testing.T) {
	repo := new(MockProductRepository)
	tx := &MockTx{}
	product := NewProduct("product-1", "Keyboard", 500, 90)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	repo.On("GetProductForUpdate", mock.Anything, tx, "product-1").Return(product, nil)
	repo.On("SaveStockChange", mock.Anything, tx, product, mock.MatchedBy(func(movement *StockMovement) bool {
		return movement.ChangeQuantity == 10 && movement.MovementType == MovementTypeReleased
	})).Return(nil)

	uc := NewProductUseCase(repo)
	updated, err := uc.Release(context.Background(), "product-1", 10)

	require.NoError(t, err)
	assert.Equal(t, 100, updated.CurrentStock)
	assert.True(t, tx.committed)
}

func TestAdjust_NegativeDeltaChecked(t *testing.T) {
	repo := new(MockProductRepository)
	tx := &MockTx{}
	product := NewProduct("product-1", "Keyboard", 500, 5)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	repo.On("GetProductForUpdate", mock.Anything, tx, "product-1").Return(product, nil)

	uc := NewProductUseCase(repo)
	_, err := uc.Adjust(context.Background(), "product-1", -6)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.True(t, tx.rolledBack)
}

func TestAdjust_PositiveDelta(t *testing.T) {
	repo := new(MockProductRepository)
	tx := &MockTx{}
	product := NewProduct("product-1", "Keyboard", 500, 5)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	repo.On("GetProductForUpdate", mock.Anything, tx, "product-1").Return(product, nil)
	repo.On("SaveStockChange", mock.Anything, tx, product, mock.MatchedBy(func(movement *StockMovement) bool {
		return movement.ChangeQuantity == 5 && movement.MovementType == MovementTypeAdjusted
	})).Return(nil)

	uc := NewProductUseCase(repo)
	updated, err := uc.Adjust(context.Background(), "product-1", 5)

	require.NoError(t, err)
	assert.Equal(t, 10, updated.CurrentStock)
}

func TestChangeStock_ProductNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	tx := &MockTx{}

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	repo.On("GetProductForUpdate", mock.Anything, tx, "missing").Return(nil, ErrProductNotFound)

	uc := NewProductUseCase(repo)
	_, err := uc.Reserve(context.Background(), "missing", 1)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestChangeStock_BeginTxFailure(t *testing.T) {
	repo := new(MockProductRepository)

	repo.On("BeginTx", mock.Anything).Return(nil, errors.New("pool exhausted"))

	uc := NewProductUseCase(repo)
	_, err := uc.Reserve(context.Background(), "product-1", 1)

	assert.Error(t, err)
}
