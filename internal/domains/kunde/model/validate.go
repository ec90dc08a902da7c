package model

import (
	"regexp"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Required text fields must start with a letter, digit or underscore.
	namePattern = regexp.MustCompile(`^\w.*`)

	// German postal codes are exactly five digits.
	plzPattern = regexp.MustCompile(`^\d{5}$`)
)

// Validate checks all field-level business rules and collects every
// violation into one field-to-message map. An empty map means the
// record is valid. forUpdate additionally requires a well-formed id.
func (k *Kunde) Validate(forUpdate bool) map[string]string {
	errs := make(map[string]string)

	if forUpdate && !govalidator.IsUUID(k.ID) {
		errs["id"] = "id must be a valid UUID"
	}

	if err := validation.Validate(k.Nachname,
		validation.Required.Error("nachname is required"),
		validation.Match(namePattern).Error("nachname must start with a letter, digit or underscore"),
	); err != nil {
		errs["nachname"] = err.Error()
	}

	if err := validation.Validate(k.Vorname,
		validation.Required.Error("vorname is required"),
		validation.Match(namePattern).Error("vorname must start with a letter, digit or underscore"),
	); err != nil {
		errs["vorname"] = err.Error()
	}

	if k.Geschlecht != "" {
		if err := validation.Validate(string(k.Geschlecht),
			validation.In(
				string(GeschlechtMaennlich),
				string(GeschlechtWeiblich),
				string(GeschlechtDivers),
			).Error("geschlecht must be M, W or D"),
		); err != nil {
			errs["geschlecht"] = err.Error()
		}
	}

	if k.Kundenart != "" {
		if err := validation.Validate(string(k.Kundenart),
			validation.In(string(KundenartPrivat), string(KundenartGewerbe)).
				Error("kundenart must be PRIVATKUNDE or GEWERBEKUNDE"),
		); err != nil {
			errs["kundenart"] = err.Error()
		}
	}

	if k.Email != "" && !govalidator.IsEmail(k.Email) {
		errs["email"] = "email must be a valid address"
	}

	if err := validation.Validate(k.Strasse,
		validation.Required.Error("strasse is required"),
		validation.Match(namePattern).Error("strasse must start with a letter, digit or underscore"),
	); err != nil {
		errs["strasse"] = err.Error()
	}

	if k.Plz != "" && !plzPattern.MatchString(k.Plz) {
		errs["plz"] = "plz must be a five-digit German postal code"
	}

	return errs
}
