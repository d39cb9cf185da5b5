package device

import (
	"context"
	"errors"
	"testing"

	"prompt-console/core/docstore"
	"prompt-console/core/docstore/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedLimits struct {
	limit int
	err   error
}

func (f fixedLimits) MaxAccountsPerDevice(context.Context) (int, error) {
	return f.limit, f.err
}

func newTestGate(t *testing.T, client docstore.Client, limits Limits) *Gate {
	t.Helper()
	return NewGate(NewRegistry(client, zap.NewNop()), limits, zap.NewNop())
}

func TestGate_CheckAdmission(t *testing.T) {
	ctx := context.Background()
	client := docstore.NewMemoryClient()
	registry := NewRegistry(client, zap.NewNop())

	// Device d1 is at the cap of 3.
	require.NoError(t, registry.CreateDevice(ctx, "d1", Account{ID: "u1"}, nil))
	require.NoError(t, registry.AddAccount(ctx, "d1", Account{ID: "u2"}, nil))
	require.NoError(t, registry.AddAccount(ctx, "d1", Account{ID: "u3"}, nil))

	gate := newTestGate(t, client, fixedLimits{limit: 3})

	t.Run("New device is always allowed", func(t *testing.T) {
		result := gate.CheckAdmission(ctx, "brand-new", "u9")
		assert.True(t, result.Allowed)
		assert.Equal(t, ReasonNewDevice, result.Reason)
		assert.Equal(t, 0, result.CurrentCount)
		assert.Equal(t, 3, result.MaxLimit)
	})

	t.Run("Existing account bypasses the cap", func(t *testing.T) {
		result := gate.CheckAdmission(ctx, "d1", "u2")
		assert.True(t, result.Allowed)
		assert.Equal(t, ReasonExistingAccount, result.Reason)
		assert.Equal(t, 3, result.CurrentCount)
	})

	t.Run("New account on a full device is denied", func(t *testing.T) {
		result := gate.CheckAdmission(ctx, "d1", "u4")
		assert.False(t, result.Allowed)
		assert.Equal(t, "device limit reached (3)", result.Reason)
		assert.Equal(t, 3, result.CurrentCount)
		assert.Equal(t, 3, result.MaxLimit)
		require.Len(t, result.ExistingAccounts, 3)
	})

	t.Run("New account below the cap is allowed", func(t *testing.T) {
		require.NoError(t, registry.CreateDevice(ctx, "d2", Account{ID: "u1"}, nil))

		result := gate.CheckAdmission(ctx, "d2", "u5")
		assert.True(t, result.Allowed)
		assert.Equal(t, ReasonSlotAvailable, result.Reason)
		assert.Equal(t, 1, result.CurrentCount)
	})

	t.Run("Count over the cap is still a deny", func(t *testing.T) {
		tight := newTestGate(t, client, fixedLimits{limit: 2})
		result := tight.CheckAdmission(ctx, "d1", "u4")
		assert.False(t, result.Allowed)
		assert.Equal(t, 3, result.CurrentCount)
		assert.Equal(t, 2, result.MaxLimit)
	})
}

func TestGate_FailsOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Limit lookup failure", func(t *testing.T) {
		gate := newTestGate(t, docstore.NewMemoryClient(), fixedLimits{err: errors.New("settings unavailable")})

		result := gate.CheckAdmission(ctx, "d1", "u1")
		assert.True(t, result.Allowed)
		assert.Equal(t, ReasonCheckFailed, result.Reason)
		assert.Equal(t, DefaultMaxAccountsPerDevice, result.MaxLimit)
	})

	t.Run("Device read failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("Get", mock.Anything, CollectionDevices, "d1").
			Return(nil, errors.New("connection reset"))
		gate := newTestGate(t, client, fixedLimits{limit: 3})

		result := gate.CheckAdmission(ctx, "d1", "u1")
		assert.True(t, result.Allowed)
		assert.Equal(t, ReasonCheckFailed, result.Reason)
		client.AssertExpectations(t)
	})
}

func TestGate_UsesStoredSettings(t *testing.T) {
	ctx := context.Background()
	client := docstore.NewMemoryClient()
	registry := NewRegistry(client, zap.NewNop())

	require.NoError(t, client.Set(ctx, collectionSettings, settingsDocID, map[string]any{
		fieldMaxAccounts: float64(1),
	}))
	require.NoError(t, registry.CreateDevice(ctx, "d1", Account{ID: "u1"}, nil))

	gate := NewGate(registry, NewSettings(client, zap.NewNop()), zap.NewNop())

	result := gate.CheckAdmission(ctx, "d1", "u2")
	assert.False(t, result.Allowed)
	assert.Equal(t, 1, result.MaxLimit)
}
