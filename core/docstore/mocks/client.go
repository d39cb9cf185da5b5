package mocks

import (
	"context"

	"prompt-console/core/docstore"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of docstore.Client
type Client struct {
	mock.Mock
}

func (m *Client) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Client) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	args := m.Called(ctx, collection, id)
	if doc, ok := args.Get(0).(*docstore.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) List(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	args := m.Called(ctx, collection, filters)
	if docs, ok := args.Get(0).([]docstore.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListChildren(ctx context.Context, collection, id, child string) ([]docstore.Document, error) {
	args := m.Called(ctx, collection, id, child)
	if docs, ok := args.Get(0).([]docstore.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *Client) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *Client) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *Client) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *Client) DeleteChild(ctx context.Context, collection, id, child, childID string) error {
	args := m.Called(ctx, collection, id, child, childID)
	return args.Error(0)
}
