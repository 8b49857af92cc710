package results

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/assay/pkg/pagination"
)

// System is the results domain.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Result], error)
	Find(ctx context.Context, id uuid.UUID) (*Result, error)
	FindByEntry(ctx context.Context, entryID uuid.UUID) (*Result, error)
	// Save upserts the result for an entry. Re-processing clears any
	// previous review.
	Save(ctx context.Context, cmd SaveCommand) (*Result, error)
	Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Result, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Stats counts results per verdict type in verdict.Types order.
	Stats(ctx context.Context) ([]VerdictCount, error)
}
