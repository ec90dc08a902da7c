package model

import (
	"errors"
	"fmt"
)

// Sentinel errors of the kunde domain.
var (
	ErrKundeNotFound = errors.New("kunde not found")
	ErrFileNotFound  = errors.New("no file stored for this kunde")
	ErrMultipleFiles = errors.New("more than one file stored for this kunde")
)

// ValidationError carries the field-to-message map produced by Validate.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Errors))
}

// NachnameExistsError reports a collision on the unique nachname.
type NachnameExistsError struct {
	Nachname string
}

func (e *NachnameExistsError) Error() string {
	return fmt.Sprintf("der Nachname %q existiert bereits", e.Nachname)
}

// StrasseExistsError reports a collision on the unique strasse.
type StrasseExistsError struct {
	Strasse string
}

func (e *StrasseExistsError) Error() string {
	return fmt.Sprintf("die Strasse %q existiert bereits", e.Strasse)
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
	return fmt.Sprintf("version %d of kunde %s is outdated", e.Version, e.ID)
}
