package tui

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// MockRunsService implements driving.RunsService for testing.
type MockRunsService struct {
	ListFunc   func(ctx context.Context, limit int) ([]domain.Run, error)
	LatestFunc func(ctx context.Context) (*domain.Run, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Run, error)
}

func (m *MockRunsService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockRunsService) Latest(ctx context.Context) (*domain.Run, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *MockRunsService) Get(ctx context.Context, id string) (*domain.Run, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// MockAskService implements driving.AskService for testing.
type MockAskService struct {
	AskFunc func(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error)
}

func (m *MockAskService) Ask(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, k)
	}
	return nil, nil
}
