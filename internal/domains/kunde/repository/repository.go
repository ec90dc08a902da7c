package repository

import (
	"context"

	"buchladen-backend/internal/domains/kunde/model"
)

// Repository is the persistence contract of the kunde domain.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Kunde, error)
	Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Kunde, error)
	Exists(ctx context.Context, id string) (bool, error)

	// NachnameExists reports whether another record (excluding
	// excludeID, which may be empty) already carries this exact name.
	NachnameExists(ctx context.Context, nachname, excludeID string) (bool, error)
	StrasseExists(ctx context.Context, strasse, excludeID string) (bool, error)

	// Create persists a new record and fills in the server-maintained
	// fields (version, createdAt, updatedAt).
	Create(ctx context.Context, kunde *model.Kunde) error

	// Update performs a conditional write predicated on both id and
	// expectedVersion in one statement. A no-match outcome is reported
	// as ErrKundeNotFound (record gone) or VersionOutdatedError (record
	// moved on).
	Update(ctx context.Context, kunde *model.Kunde, expectedVersion int) error

	// Delete removes the record; it reports whether a row was deleted
	// and never errors on "nothing to delete".
	Delete(ctx context.Context, id string) (bool, error)
}
