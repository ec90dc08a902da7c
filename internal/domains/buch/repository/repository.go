package repository

import (
	"context"

	"buchladen-backend/internal/domains/buch/model"
)

// Repository is the persistence contract of the buch domain.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Buch, error)
	Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Buch, error)
	Exists(ctx context.Context, id string) (bool, error)

	// TitelExists reports whether another record (excluding excludeID,
	// which may be empty) already carries this exact titel.
	TitelExists(ctx context.Context, titel, excludeID string) (bool, error)
	IsbnExists(ctx context.Context, isbn, excludeID string) (bool, error)

	// Create persists a new record and fills in the server-maintained
	// fields (version, createdAt, updatedAt).
	Create(ctx context.Context, buch *model.Buch) error

	// Update performs a conditional write predicated on both id and
	// expectedVersion in one statement. A no-match outcome is reported
	// as ErrBuchNotFound (record gone) or VersionOutdatedError (record
	// moved on).
	Update(ctx context.Context, buch *model.Buch, expectedVersion int) error

	// Delete removes the record; it reports whether a row was deleted
	// and never errors on "nothing to delete".
	Delete(ctx context.Context, id string) (bool, error)
}
