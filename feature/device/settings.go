package device

import (
	"context"
	"errors"
	"fmt"

	"prompt-console/core/docstore"
	"prompt-console/core/utils"

	"go.uber.org/zap"
)

const (
	collectionSettings = "settings"
	settingsDocID      = "admin"
	fieldMaxAccounts   = "maxAccountsPerDevice"
)

// DefaultMaxAccountsPerDevice applies when the admin setting is absent or
// invalid.
const DefaultMaxAccountsPerDevice = 3

// Limits resolves the device admission cap.
type Limits interface {
	MaxAccountsPerDevice(ctx context.Context) (int, error)
}

// Settings reads the admission cap from the settings/admin document. The
// settings screen mutates that document; this side only reads it.
type Settings struct {
	client docstore.Client
	logger *zap.Logger
}

// NewSettings creates a store-backed Limits provider.
func NewSettings(client docstore.Client, logger *zap.Logger) *Settings {
	return &Settings{client: client, logger: logger}
}

// MaxAccountsPerDevice returns the configured cap. A missing document or a
// non-numeric / non-positive value silently falls back to the default (with a
// warning log); only a store read failure is surfaced, so the gate can decide
// to fail open.
func (s *Settings) MaxAccountsPerDevice(ctx context.Context) (int, error) {
	doc, err := s.client.Get(ctx, collectionSettings, settingsDocID)
	if errors.Is(err, docstore.ErrNotFound) {
		return DefaultMaxAccountsPerDevice, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read admin settings: %w", err)
	}

	limit, ok := utils.AsInt(doc.Fields[fieldMaxAccounts])
	if !ok || limit < 1 {
		s.logger.Warn("Invalid maxAccountsPerDevice setting, using default",
			zap.Any("value", doc.Fields[fieldMaxAccounts]),
			zap.Int("default", DefaultMaxAccountsPerDevice),
		)
		return DefaultMaxAccountsPerDevice, nil
	}
	return limit, nil
}
