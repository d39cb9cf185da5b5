package device

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Admission reasons, surfaced to the login flow for UX decisions.
const (
	ReasonNewDevice       = "new device"
	ReasonExistingAccount = "existing account"
	ReasonSlotAvailable   = "below device limit"
	ReasonCheckFailed     = "error checking limit"
)

// AdmissionResult is the gate's decision for one login attempt.
type AdmissionResult struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason"`
	CurrentCount int    `json:"currentCount"`
	MaxLimit     int    `json:"maxLimit"`
	// ExistingAccounts is populated on deny so the caller can present a
	// switch-account flow.
	ExistingAccounts []Account `json:"existingAccounts,omitempty"`
}

// Gate decides whether a login attempt may register a new account on a
// device. It reads but never mutates the ledger; on allow, the caller is
// expected to follow up with Registry.RegisterLogin.
type Gate struct {
	registry *Registry
	limits   Limits
	logger   *zap.Logger
}

// NewGate creates an admission gate.
func NewGate(registry *Registry, limits Limits, logger *zap.Logger) *Gate {
	return &Gate{registry: registry, limits: limits, logger: logger}
}

// CheckAdmission applies the admission policy:
//
//  1. Unknown device: allow (first account on a new device).
//  2. Account already on the device: allow (re-login is never blocked).
//  3. Ledger at or over the cap: deny, returning the existing accounts.
//  4. Otherwise: allow.
//
// Any read failure along the way fails OPEN: login availability is
// prioritized over strict enforcement of the cap, so the gate is not a
// security boundary. Concurrent check-then-register sequences on the same
// device can transiently overrun the cap for the same reason.
func (g *Gate) CheckAdmission(ctx context.Context, deviceID, accountID string) AdmissionResult {
	maxLimit, err := g.limits.MaxAccountsPerDevice(ctx)
	if err != nil {
		g.logger.Warn("Admission check failed open: cannot resolve device limit",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return AdmissionResult{
			Allowed:  true,
			Reason:   ReasonCheckFailed,
			MaxLimit: DefaultMaxAccountsPerDevice,
		}
	}

	d, err := g.registry.GetDevice(ctx, deviceID)
	if err != nil {
		g.logger.Warn("Admission check failed open: cannot read device",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return AdmissionResult{
			Allowed:  true,
			Reason:   ReasonCheckFailed,
			MaxLimit: maxLimit,
		}
	}

	if d == nil {
		return AdmissionResult{
			Allowed:  true,
			Reason:   ReasonNewDevice,
			MaxLimit: maxLimit,
		}
	}

	if d.HasAccount(accountID) {
		return AdmissionResult{
			Allowed:      true,
			Reason:       ReasonExistingAccount,
			CurrentCount: d.AccountCount,
			MaxLimit:     maxLimit,
		}
	}

	if d.AccountCount >= maxLimit {
		return AdmissionResult{
			Allowed:          false,
			Reason:           fmt.Sprintf("device limit reached (%d)", maxLimit),
			CurrentCount:     d.AccountCount,
			MaxLimit:         maxLimit,
			ExistingAccounts: d.Accounts,
		}
	}

	return AdmissionResult{
		Allowed:      true,
		Reason:       ReasonSlotAvailable,
		CurrentCount: d.AccountCount,
		MaxLimit:     maxLimit,
	}
}
