package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prompt-console/core/docstore"

	"go.uber.org/zap"
)

// ErrDeviceExists is returned by CreateDevice when the device id is taken.
var ErrDeviceExists = errors.New("device already exists")

// ErrDeviceNotFound is returned by mutations that require an existing device;
// callers must call CreateDevice first.
var ErrDeviceNotFound = errors.New("device not found")

// Registry owns all mutations of the device ledger.
type Registry struct {
	client docstore.Client
	logger *zap.Logger
}

// NewRegistry creates a device registry.
func NewRegistry(client docstore.Client, logger *zap.Logger) *Registry {
	return &Registry{client: client, logger: logger}
}

// CreateDevice writes a new ledger with a one-element account set.
// Fails with ErrDeviceExists if the device id is already registered.
func (r *Registry) CreateDevice(ctx context.Context, deviceID string, acct Account, info map[string]any) error {
	now := time.Now().UTC()
	acct.FirstSeenAt = now
	acct.LastSeenAt = now

	d := &Device{
		ID:           deviceID,
		AccountIDs:   []string{acct.ID},
		AccountCount: 1,
		Accounts:     []Account{acct},
		Info:         info,
		FirstSeenAt:  now,
		LastSeenAt:   now,
	}

	err := r.client.Create(ctx, CollectionDevices, deviceID, d.fields())
	if errors.Is(err, docstore.ErrExists) {
		return fmt.Errorf("%w: %s", ErrDeviceExists, deviceID)
	}
	if err != nil {
		return fmt.Errorf("failed to create device %s: %w", deviceID, err)
	}

	r.logger.Info("Device registered",
		zap.String("device_id", deviceID),
		zap.String("account_id", acct.ID),
	)
	return nil
}

// AddAccount records a login on an existing device. A known account only gets
// its lastSeenAt refreshed; a new account is appended to all three ledger
// representations in a single update so the invariant never observably breaks
// between writes.
func (r *Registry) AddAccount(ctx context.Context, deviceID string, acct Account, info map[string]any) error {
	doc, err := r.client.Get(ctx, CollectionDevices, deviceID)
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%w: %s (create the device first)", ErrDeviceNotFound, deviceID)
	}
	if err != nil {
		return fmt.Errorf("failed to read device %s: %w", deviceID, err)
	}

	d := deviceFromDocument(doc)
	now := time.Now().UTC()
	d.LastSeenAt = now
	if info != nil {
		d.Info = info
	}

	if d.HasAccount(acct.ID) {
		for i := range d.Accounts {
			if d.Accounts[i].ID == acct.ID {
				d.Accounts[i].LastSeenAt = now
			}
		}
	} else {
		acct.FirstSeenAt = now
		acct.LastSeenAt = now
		d.Accounts = append(d.Accounts, acct)
		d.AccountIDs = append(d.AccountIDs, acct.ID)
		d.AccountCount = d.AccountCount + 1
	}

	if err := r.client.Update(ctx, CollectionDevices, deviceID, d.membershipFields()); err != nil {
		return fmt.Errorf("failed to update device %s: %w", deviceID, err)
	}

	r.logger.Info("Device login recorded",
		zap.String("device_id", deviceID),
		zap.String("account_id", acct.ID),
		zap.Int("account_count", d.AccountCount),
	)
	return nil
}

// RemoveAccount filters the account out of the ledger. The count is
// recomputed from the filtered id set, never blindly decremented, so minor
// drift self-heals here.
func (r *Registry) RemoveAccount(ctx context.Context, deviceID, accountID string) error {
	doc, err := r.client.Get(ctx, CollectionDevices, deviceID)
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	if err != nil {
		return fmt.Errorf("failed to read device %s: %w", deviceID, err)
	}

	d := deviceFromDocument(doc)

	ids := make([]string, 0, len(d.AccountIDs))
	for _, id := range d.AccountIDs {
		if id != accountID {
			ids = append(ids, id)
		}
	}
	accounts := make([]Account, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		if a.ID != accountID {
			accounts = append(accounts, a)
		}
	}

	d.AccountIDs = ids
	d.Accounts = accounts
	d.AccountCount = len(ids)
	d.LastSeenAt = time.Now().UTC()

	if err := r.client.Update(ctx, CollectionDevices, deviceID, d.membershipFields()); err != nil {
		return fmt.Errorf("failed to update device %s: %w", deviceID, err)
	}

	r.logger.Info("Account removed from device",
		zap.String("device_id", deviceID),
		zap.String("account_id", accountID),
		zap.Int("account_count", d.AccountCount),
	)
	return nil
}

// RegisterLogin is the create-if-absent login path: it creates the device on
// first login and records the account on subsequent logins.
func (r *Registry) RegisterLogin(ctx context.Context, deviceID string, acct Account, info map[string]any) error {
	err := r.CreateDevice(ctx, deviceID, acct, info)
	if errors.Is(err, ErrDeviceExists) {
		return r.AddAccount(ctx, deviceID, acct, info)
	}
	return err
}

// GetDevice returns the ledger, or (nil, nil) when the device is unknown.
func (r *Registry) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	doc, err := r.client.Get(ctx, CollectionDevices, deviceID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read device %s: %w", deviceID, err)
	}
	return deviceFromDocument(doc), nil
}

// DeleteDevice removes the ledger. Explicit admin operation; devices are never
// destroyed automatically.
func (r *Registry) DeleteDevice(ctx context.Context, deviceID string) error {
	if err := r.client.Delete(ctx, CollectionDevices, deviceID); err != nil {
		return fmt.Errorf("failed to delete device %s: %w", deviceID, err)
	}
	r.logger.Info("Device deleted", zap.String("device_id", deviceID))
	return nil
}

// ListDevicesForAccount returns every device whose ledger contains the
// account. Full scan plus filter; fine for admin tooling, not a hot path.
func (r *Registry) ListDevicesForAccount(ctx context.Context, accountID string) ([]*Device, error) {
	docs, err := r.client.List(ctx, CollectionDevices)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	var out []*Device
	for i := range docs {
		d := deviceFromDocument(&docs[i])
		if d.HasAccount(accountID) {
			out = append(out, d)
		}
	}
	return out, nil
}
