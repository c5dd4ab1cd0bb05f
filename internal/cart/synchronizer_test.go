package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/cart"
	"storefront/internal/storage"
)

type RemoteCartMock struct{ mock.Mock }

func (m *RemoteCartMock) Fetch(ctx context.Context) ([]cart.RemoteLine, error) {
	args := m.Called(ctx)
	lines, _ := args.Get(0).([]cart.RemoteLine)
	return lines, args.Error(1)
}

func (m *RemoteCartMock) Add(ctx context.Context, productID int64, quantity int64) ([]cart.RemoteLine, error) {
	args := m.Called(ctx, productID, quantity)
	lines, _ := args.Get(0).([]cart.RemoteLine)
	return lines, args.Error(1)
}

func (m *RemoteCartMock) UpdateLine(ctx context.Context, lineID int64, quantity int64) ([]cart.RemoteLine, error) {
	args := m.Called(ctx, lineID, quantity)
	lines, _ := args.Get(0).([]cart.RemoteLine)
	return lines, args.Error(1)
}

func (m *RemoteCartMock) RemoveLine(ctx context.Context, lineID int64) ([]cart.RemoteLine, error) {
	args := m.Called(ctx, lineID)
	lines, _ := args.Get(0).([]cart.RemoteLine)
	return lines, args.Error(1)
}

func (m *RemoteCartMock) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type staticAuth struct{ authenticated bool }

func (a *staticAuth) IsAuthenticated() bool { return a.authenticated }

var errRemote = errors.New("remote down")

func TestSynchronizer_AnonymousNeverCallsRemote(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	remote := new(RemoteCartMock)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: false})

	y.Fetch(ctx)
	y.Add(ctx, product(1, "a", 100), 2)
	y.SetQuantity(ctx, 1, 3)
	y.Remove(ctx, 1)
	y.Clear(ctx)

	remote.AssertNotCalled(t, "Fetch", mock.Anything)
	remote.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	remote.AssertNotCalled(t, "Clear", mock.Anything)
}

func TestSynchronizer_AuthenticatedAddReplacesFromRemote(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	remote := new(RemoteCartMock)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: true})

	remote.On("Add", mock.Anything, int64(1), int64(2)).Return([]cart.RemoteLine{
		{ID: 501, ProductID: 1, Name: "a", Price: 100, Quantity: 2},
	}, nil)

	y.Add(ctx, product(1, "a", 100), 2)

	lines := store.Read()
	assert.Len(t, lines, 1)
	// リモートが採番した明細IDが載る
	assert.Equal(t, int64(501), lines[0].LineID)
	assert.Equal(t, int64(1), lines[0].Product.ID)
	remote.AssertExpectations(t)
}

func TestSynchronizer_RemoteFailureFallsBackLocally(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	remote := new(RemoteCartMock)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: true})

	remote.On("Add", mock.Anything, int64(1), int64(2)).Return(nil, errRemote)

	// 失敗してもUIが詰まらないようローカルに積む
	y.Add(ctx, product(1, "a", 100), 2)

	lines := store.Read()
	assert.Len(t, lines, 1)
	assert.Equal(t, int64(0), lines[0].LineID)
	assert.Equal(t, int64(2), lines[0].Quantity)
}

func TestSynchronizer_FetchFailureKeepsExistingCart(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	store.Add(ctx, product(1, "a", 100), 2)

	remote := new(RemoteCartMock)
	remote.On("Fetch", mock.Anything).Return(nil, errRemote)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: true})

	y.Fetch(ctx)

	// 失敗してもカートは消さない
	assert.Len(t, store.Read(), 1)
}

func TestSynchronizer_SetQuantityUsesRemoteLineID(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	remote := new(RemoteCartMock)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: true})

	remote.On("Add", mock.Anything, int64(1), int64(1)).Return([]cart.RemoteLine{
		{ID: 501, ProductID: 1, Name: "a", Price: 100, Quantity: 1},
	}, nil)
	remote.On("UpdateLine", mock.Anything, int64(501), int64(4)).Return([]cart.RemoteLine{
		{ID: 501, ProductID: 1, Name: "a", Price: 100, Quantity: 4},
	}, nil)

	y.Add(ctx, product(1, "a", 100), 1)
	// ローカル操作は商品IDで、リモートへは明細IDで
	y.SetQuantity(ctx, 1, 4)

	lines := store.Read()
	assert.Equal(t, int64(4), lines[0].Quantity)
	remote.AssertExpectations(t)
}

func TestSynchronizer_RemoveUnsyncedLineStaysLocal(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	store.Add(ctx, product(1, "a", 100), 1)

	remote := new(RemoteCartMock)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: true})

	// LineIDが無い明細はリモートを触らない
	y.Remove(ctx, 1)

	assert.Empty(t, store.Read())
	remote.AssertNotCalled(t, "RemoveLine", mock.Anything, mock.Anything)
}

func TestSynchronizer_ClearClearsLocallyEvenIfRemoteFails(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemoryKV(), "cart:test")
	store.Add(ctx, product(1, "a", 100), 1)

	remote := new(RemoteCartMock)
	remote.On("Clear", mock.Anything).Return(errRemote)
	y := cart.NewSynchronizer(store, remote, &staticAuth{authenticated: true})

	y.Clear(ctx)

	assert.Empty(t, store.Read())
	remote.AssertExpectations(t)
}
