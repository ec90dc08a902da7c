package model

import (
	"regexp"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// namePattern: required text fields must start with a letter, digit or
// underscore.
var namePattern = regexp.MustCompile(`^\w.*`)

// Validate checks all field-level business rules and collects every
// violation into one field-to-message map. An empty map means the
// record is valid. forUpdate additionally requires a well-formed id.
func (b *Buch) Validate(forUpdate bool) map[string]string {
	errs := make(map[string]string)

	if forUpdate && !govalidator.IsUUID(b.ID) {
		errs["id"] = "id must be a valid UUID"
	}

	if err := validation.Validate(b.Titel,
		validation.Required.Error("titel is required"),
		validation.Match(namePattern).Error("titel must start with a letter, digit or underscore"),
	); err != nil {
		errs["titel"] = err.Error()
	}

	if b.Rating != nil && (*b.Rating < 0 || *b.Rating > 5) {
		errs["rating"] = "rating must be between 0 and 5"
	}

	if b.Art != "" {
		if err := validation.Validate(string(b.Art),
			validation.In(string(ArtKindle), string(ArtDruckausgabe)).
				Error("art must be KINDLE or DRUCKAUSGABE"),
		); err != nil {
			errs["art"] = err.Error()
		}
	}

	if err := validation.Validate(string(b.Verlag),
		validation.Required.Error("verlag is required"),
		validation.In(string(VerlagFoo), string(VerlagBar)).
			Error("verlag must be FOO_VERLAG or BAR_VERLAG"),
	); err != nil {
		errs["verlag"] = err.Error()
	}

	if b.Preis.LessThanOrEqual(decimal.Zero) {
		errs["preis"] = "preis must be a positive amount"
	}

	if b.Rabatt != nil {
		if b.Rabatt.IsNegative() || b.Rabatt.GreaterThan(decimal.NewFromInt(1)) {
			errs["rabatt"] = "rabatt must be between 0 and 1"
		}
	}

	if b.Isbn != "" && !govalidator.IsISBN13(b.Isbn) {
		errs["isbn"] = "isbn must be a valid ISBN-13"
	}

	if b.Homepage != "" && !govalidator.IsURL(b.Homepage) {
		errs["homepage"] = "homepage must be a valid URL"
	}

	return errs
}
