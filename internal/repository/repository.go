package repository

import (
	"context"

	"github.com/swiftbuy/storefront/internal/domain"
)

// SubmissionEventRepository stores the outcome of coupon submissions
type SubmissionEventRepository interface {
	Create(ctx context.Context, event *domain.SubmissionEvent) error
	ListByCode(ctx context.Context, code string, limit int) ([]*domain.SubmissionEvent, error)
}

// Repositories groups the storage the services write to
type Repositories struct {
	SubmissionEvent SubmissionEventRepository
}

// NewNoopRepositories is used when no database is configured
func NewNoopRepositories() *Repositories {
	return &Repositories{SubmissionEvent: noopSubmissionEvents{}}
}

type noopSubmissionEvents struct{}

func (noopSubmissionEvents) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	return nil
}

func (noopSubmissionEvents) ListByCode(ctx context.Context, code string, limit int) ([]*domain.SubmissionEvent, error) {
	return nil, nil
}
