package service

import (
	"context"
	"io"

	"buchladen-backend/internal/domains/kunde/model"
)

// Service is the business contract of the kunde domain. The container
// selects either the persistent implementation or the in-memory mock
// at construction time.
type Service interface {
	FindByID(ctx context.Context, id string) (*model.Kunde, error)
	Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Kunde, error)

	// Create validates, checks uniqueness, assigns a fresh id and
	// persists. The returned record carries version 0 and the
	// server-maintained timestamps.
	Create(ctx context.Context, kunde *model.Kunde) (*model.Kunde, error)

	// Update parses versionToken, validates, re-checks uniqueness
	// excluding the record itself, and performs the conditional write.
	// The returned record carries the incremented version.
	Update(ctx context.Context, kunde *model.Kunde, versionToken string) (*model.Kunde, error)

	// Delete removes the record and reports whether anything was
	// deleted; it never errors on a missing id.
	Delete(ctx context.Context, id string) (bool, error)
}

// FileContent is a streamable download handle plus its metadata.
type FileContent struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

// FileService manages the single binary attachment of a kunde.
type FileService interface {
	// Save stores content as the record's attachment, replacing any
	// previous one. It reports false (without error) when no record
	// with this id exists.
	Save(ctx context.Context, id string, content io.Reader, size int64, contentType string) (bool, error)

	// Find returns the stored attachment. Absence of the record is
	// model.ErrKundeNotFound, absence of a blob is
	// model.ErrFileNotFound, and more than one blob is
	// model.ErrMultipleFiles.
	Find(ctx context.Context, id string) (*FileContent, error)
}
