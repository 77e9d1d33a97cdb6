// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

type MockDocumentStore struct {
	mock.Mock
}

var _ repositories.DocumentStore = (*MockDocumentStore)(nil)

func (m *MockDocumentStore) SetDocument(ctx context.Context, collection, id string, data any) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

func (m *MockDocumentStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error {
	args := m.Called(ctx, collection, id, patch)
	return args.Error(0)
}
