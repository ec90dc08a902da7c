package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validBuch() *Buch {
	rating := 3
	return &Buch{
		ID:       "e2f897f0-44ab-4a77-b33a-a8b1ed388c85",
		Titel:    "Alpha",
		Rating:   &rating,
		Art:      ArtDruckausgabe,
		Verlag:   VerlagFoo,
		Preis:    decimal.NewFromFloat(11.1),
		Isbn:     "9783897225831",
		Homepage: "https://acme.at",
	}
}

func TestValidateAcceptsValidBuch(t *testing.T) {
	assert.Empty(t, validBuch().Validate(false))
	assert.Empty(t, validBuch().Validate(true))
}

func TestValidateCollectsAllViolationsInOnePass(t *testing.T) {
	rating := 7
	buch := &Buch{
		Titel:  "",
		Rating: &rating,
		Art:    "HOERBUCH",
		Verlag: "UNBEKANNT",
		Preis:  decimal.NewFromInt(-1),
		Isbn:   "not-an-isbn",
	}

	errs := buch.Validate(false)

	assert.Contains(t, errs, "titel")
	assert.Contains(t, errs, "rating")
	assert.Contains(t, errs, "art")
	assert.Contains(t, errs, "verlag")
	assert.Contains(t, errs, "preis")
	assert.Contains(t, errs, "isbn")
}

func TestValidateTitelMustStartAlphanumeric(t *testing.T) {
	buch := validBuch()
	buch.Titel = "!Alpha"

	errs := buch.Validate(false)

	assert.Contains(t, errs, "titel")
}

func TestValidateOptionalFieldsMayBeAbsent(t *testing.T) {
	buch := &Buch{
		Titel:  "Beta",
		Verlag: VerlagBar,
		Preis:  decimal.NewFromFloat(9.99),
	}

	assert.Empty(t, buch.Validate(false))
}

func TestValidateRatingBounds(t *testing.T) {
	for rating, wantError := range map[int]bool{-1: true, 0: false, 5: false, 6: true} {
		buch := validBuch()
		r := rating
		buch.Rating = &r

		errs := buch.Validate(false)
		if wantError {
			assert.Contains(t, errs, "rating", "rating %d", rating)
		} else {
			assert.NotContains(t, errs, "rating", "rating %d", rating)
		}
	}
}

func TestValidateRabattRange(t *testing.T) {
	buch := validBuch()
	rabatt := decimal.NewFromFloat(1.5)
	buch.Rabatt = &rabatt

	assert.Contains(t, buch.Validate(false), "rabatt")

	rabatt = decimal.NewFromFloat(0.25)
	buch.Rabatt = &rabatt
	assert.NotContains(t, buch.Validate(false), "rabatt")
}

func TestValidateRequiresUUIDOnUpdateOnly(t *testing.T) {
	buch := validBuch()
	buch.ID = "no-uuid"

	assert.NotContains(t, buch.Validate(false), "id")
	assert.Contains(t, buch.Validate(true), "id")
}
