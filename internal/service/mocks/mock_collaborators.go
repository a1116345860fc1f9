package mocks

import (
	"context"

	"emailpost/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockParentFinder struct {
	mock.Mock
}

func (m *MockParentFinder) Find(ctx context.Context, route string) (*model.Node, error) {
	args := m.Called(ctx, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Node), args.Error(1)
}

type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Save(ctx context.Context, e *model.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockFolders struct {
	mock.Mock
}

func (m *MockFolders) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFolders) Create(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

type MockCacheInvalidator struct {
	mock.Mock
}

func (m *MockCacheInvalidator) ClearCache(namespace string) {
	m.Called(namespace)
}
