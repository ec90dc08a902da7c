package model

import (
	"errors"
	"fmt"
)

// Sentinel errors of the buch domain.
var (
	ErrBuchNotFound  = errors.New("buch not found")
	ErrFileNotFound  = errors.New("no file stored for this buch")
	ErrMultipleFiles = errors.New("more than one file stored for this buch")
)

// ValidationError carries the field-to-message map produced by Validate.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Errors))
}

// TitelExistsError reports a collision on the unique titel.
type TitelExistsError struct {
	Titel string
}

func (e *TitelExistsError) Error() string {
	return fmt.Sprintf("der Titel %q existiert bereits", e.Titel)
}

// IsbnExistsError reports a collision on the unique ISBN.
type IsbnExistsError struct {
	Isbn string
}

func (e *IsbnExistsError) Error() string {
	return fmt.Sprintf("die ISBN %q existiert bereits", e.Isbn)
}

// VersionInvalidError reports a version token that is not a usable
// integer.
type VersionInvalidError struct {
	Token string
}

func (e *VersionInvalidError) Error() string {
	return fmt.Sprintf("invalid version token %q", e.Token)
}

// VersionOutdatedError reports that the conditional write matched no
// row: the record was modified (or deleted) since the client read it.
type VersionOutdatedError struct {
	ID      string
	Version int
}

func (e *VersionOutdatedError) Error() string {
	return fmt.Sprintf("version %d of buch %s is outdated", e.Version, e.ID)
}
