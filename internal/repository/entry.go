package repository

import (
	"context"

	"emailpost/internal/model"
)

// EntryRepository records entries created through the webhook.
// No business logic here, strictly persistence operations.
type EntryRepository interface {
	// Create inserts a ledger row for the entry and returns the stored record.
	Create(ctx context.Context, e *model.Entry) (*model.Entry, error)
}
