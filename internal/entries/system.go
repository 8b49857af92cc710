package entries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/pkg/pagination"
)

// System is the entries domain.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
	Find(ctx context.Context, id uuid.UUID) (*Entry, error)
	// Create validates the PDF, uploads it, and registers a pending entry.
	Create(ctx context.Context, cmd CreateCommand) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Pending returns up to limit entries that are pending, or in error with
	// fewer than attemptsLimit attempts, oldest first.
	Pending(ctx context.Context, attemptsLimit, limit int) ([]Entry, error)
	// MarkProcessing claims an entry and increments its attempts. Entries
	// already processing cannot be claimed.
	MarkProcessing(ctx context.Context, id uuid.UUID) (*Entry, error)
	MarkComplete(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	// Requeue returns entries stuck in processing for longer than olderThan
	// to error so they are retried.
	Requeue(ctx context.Context, olderThan time.Duration) (int64, error)
}
