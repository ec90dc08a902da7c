package model

import (
	"time"
)

// Geschlecht is the closed gender set.
type Geschlecht string

const (
	GeschlechtMaennlich Geschlecht = "M"
	GeschlechtWeiblich  Geschlecht = "W"
	GeschlechtDivers    Geschlecht = "D"
)

// Kundenart classifies the account.
type Kundenart string

const (
	KundenartPrivat  Kundenart = "PRIVATKUNDE"
	KundenartGewerbe Kundenart = "GEWERBEKUNDE"
)

// Kunde is a customer record. ID is assigned at creation and immutable.
// Version starts at 0 and is incremented by exactly one per successful
// update. Nachname and Strasse are unique across all live records;
// Strasse is additionally immutable after creation.
type Kunde struct {
	ID                  string     `json:"id"`
	Version             int        `json:"version"`
	Nachname            string     `json:"nachname"`
	Vorname             string     `json:"vorname"`
	Geschlecht          Geschlecht `json:"geschlecht,omitempty"`
	Kundenart           Kundenart  `json:"kundenart,omitempty"`
	Email               string     `json:"email,omitempty"`
	Strasse             string     `json:"strasse"`
	Hausnummer          string     `json:"hausnummer,omitempty"`
	Plz                 string     `json:"plz,omitempty"`
	Ort                 string     `json:"ort,omitempty"`
	Aktiv               *bool      `json:"aktiv,omitempty"`
	Registrierungsdatum *time.Time `json:"registrierungsdatum,omitempty"`
	Zusatzinfo          string     `json:"zusatzinfo,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// SearchCriteria narrows a find call. Zero values mean "not filtered".
type SearchCriteria struct {
	// Vorname is matched as a case-insensitive substring. Values of 20
	// characters or more are ignored to bound matching cost.
	Vorname string

	Nachname   string
	Geschlecht string
	Kundenart  string
	Plz        string
	Aktiv      *bool
}

// MaxVornameFilterLen bounds the substring filter; longer values are
// dropped from the criteria.
const MaxVornameFilterLen = 20
