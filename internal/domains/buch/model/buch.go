package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// BuchArt is the publication format.
type BuchArt string

const (
	ArtKindle       BuchArt = "KINDLE"
	ArtDruckausgabe BuchArt = "DRUCKAUSGABE"
)

// Verlag is the closed set of publishers.
type Verlag string

const (
	VerlagFoo Verlag = "FOO_VERLAG"
	VerlagBar Verlag = "BAR_VERLAG"
)

// Schlagwort values recognized by the search filter.
const (
	SchlagwortJavascript = "JAVASCRIPT"
	SchlagwortTypescript = "TYPESCRIPT"
)

// Buch is a book record. ID is assigned at creation and immutable.
// Version starts at 0 and is incremented by exactly one per successful
// update; clients never set it directly. Titel and Isbn are unique
// across all live records.
type Buch struct {
	ID            string           `json:"id"`
	Version       int              `json:"version"`
	Titel         string           `json:"titel"`
	Rating        *int             `json:"rating,omitempty"`
	Art           BuchArt          `json:"art,omitempty"`
	Verlag        Verlag           `json:"verlag"`
	Preis         decimal.Decimal  `json:"preis"`
	Rabatt        *decimal.Decimal `json:"rabatt,omitempty"`
	Lieferbar     *bool            `json:"lieferbar,omitempty"`
	Datum         *time.Time       `json:"datum,omitempty"`
	Isbn          string           `json:"isbn,omitempty"`
	Homepage      string           `json:"homepage,omitempty"`
	Schlagwoerter pq.StringArray   `json:"schlagwoerter,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// SearchCriteria narrows a find call. Zero values mean "not filtered".
type SearchCriteria struct {
	// Titel is matched as a case-insensitive substring. Values of 20
	// characters or more are ignored to bound matching cost.
	Titel string

	Art       string
	Verlag    string
	Rating    *int
	Lieferbar *bool
	Isbn      string

	// Schlagwoerter must all be present on a matching record.
	Schlagwoerter []string
}

// MaxTitelFilterLen bounds the substring filter; longer values are
// dropped from the criteria.
const MaxTitelFilterLen = 20
