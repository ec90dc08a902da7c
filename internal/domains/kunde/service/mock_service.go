package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"buchladen-backend/internal/domains/kunde/model"
)

// mockService is the in-memory stand-in used when no database is
// configured.
type mockService struct {
	mu     sync.RWMutex
	kunden map[string]model.Kunde
	files  map[string]mockFile
}

type mockFile struct {
	data        []byte
	contentType string
}

var (
	_ Service     = (*mockService)(nil)
	_ FileService = (*mockFileService)(nil)
)

// NewMockService builds the in-memory implementation preloaded with
// fixture data. Both returned services share one store.
func NewMockService() (Service, FileService) {
	m := &mockService{
		kunden: make(map[string]model.Kunde),
		files:  make(map[string]mockFile),
	}
	m.seed()
	return m, &mockFileService{m}
}

func (m *mockService) seed() {
	aktiv := true
	registriert := time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)

	fixtures := []model.Kunde{
		{
			ID:                  "00000000-0000-0000-0000-00000000a001",
			Nachname:            "Alphastein",
			Vorname:             "Anna",
			Geschlecht:          model.GeschlechtWeiblich,
			Kundenart:           model.KundenartPrivat,
			Email:               "anna.alphastein@acme.de",
			Strasse:             "Ahornweg",
			Hausnummer:          "1",
			Plz:                 "76131",
			Ort:                 "Karlsruhe",
			Aktiv:               &aktiv,
			Registrierungsdatum: &registriert,
		},
		{
			ID:         "00000000-0000-0000-0000-00000000a002",
			Nachname:   "Betamann",
			Vorname:    "Bernd",
			Geschlecht: model.GeschlechtMaennlich,
			Kundenart:  model.KundenartGewerbe,
			Strasse:    "Birkenallee",
			Hausnummer: "22",
			Plz:        "10115",
			Ort:        "Berlin",
		},
	}

	now := time.Now()
	for _, k := range fixtures {
		k.CreatedAt = now
		k.UpdatedAt = now
		m.kunden[k.ID] = k
	}
}

func (m *mockService) FindByID(_ context.Context, id string) (*model.Kunde, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kunde, ok := m.kunden[id]
	if !ok {
		return nil, model.ErrKundeNotFound
	}
	return &kunde, nil
}

func (m *mockService) Find(_ context.Context, criteria model.SearchCriteria) ([]model.Kunde, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Kunde{}
	for _, kunde := range m.kunden {
		if matches(kunde, criteria) {
			result = append(result, kunde)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Nachname < result[j].Nachname
	})
	return result, nil
}

func matches(kunde model.Kunde, c model.SearchCriteria) bool {
	if c.Vorname != "" && len(c.Vorname) < model.MaxVornameFilterLen &&
		!strings.Contains(strings.ToLower(kunde.Vorname), strings.ToLower(c.Vorname)) {
		return false
	}
	if c.Nachname != "" && kunde.Nachname != c.Nachname {
		return false
	}
	if c.Geschlecht != "" && string(kunde.Geschlecht) != c.Geschlecht {
		return false
	}
	if c.Kundenart != "" && string(kunde.Kundenart) != c.Kundenart {
		return false
	}
	if c.Plz != "" && kunde.Plz != c.Plz {
		return false
	}
	if c.Aktiv != nil && (kunde.Aktiv == nil || *kunde.Aktiv != *c.Aktiv) {
		return false
	}
	return true
}

func (m *mockService) Create(_ context.Context, kunde *model.Kunde) (*model.Kunde, error) {
	if errs := kunde.Validate(false); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.kunden {
		if existing.Nachname == kunde.Nachname {
			return nil, &model.NachnameExistsError{Nachname: kunde.Nachname}
		}
		if existing.Strasse == kunde.Strasse {
			return nil, &model.StrasseExistsError{Strasse: kunde.Strasse}
		}
	}

	kunde.ID = uuid.NewString()
	kunde.Version = 0
	kunde.CreatedAt = time.Now()
	kunde.UpdatedAt = kunde.CreatedAt

	m.kunden[kunde.ID] = *kunde
	return kunde, nil
}

func (m *mockService) Update(_ context.Context, kunde *model.Kunde, versionToken string) (*model.Kunde, error) {
	expectedVersion, err := strconv.Atoi(versionToken)
	if err != nil {
		return nil, &model.VersionInvalidError{Token: versionToken}
	}

	if errs := kunde.Validate(true); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.kunden {
		if id != kunde.ID && existing.Nachname == kunde.Nachname {
			return nil, &model.NachnameExistsError{Nachname: kunde.Nachname}
		}
	}

	current, ok := m.kunden[kunde.ID]
	if !ok {
		return nil, model.ErrKundeNotFound
	}
	if current.Version != expectedVersion {
		return nil, &model.VersionOutdatedError{ID: kunde.ID, Version: expectedVersion}
	}

	kunde.Version = current.Version + 1
	kunde.Strasse = current.Strasse
	kunde.CreatedAt = current.CreatedAt
	kunde.UpdatedAt = time.Now()

	m.kunden[kunde.ID] = *kunde
	return kunde, nil
}

func (m *mockService) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.kunden[id]; !ok {
		return false, nil
	}
	delete(m.kunden, id)
	return true, nil
}

// mockFileService serves the attachment contract against the shared
// in-memory store.
type mockFileService struct {
	m *mockService
}

func (f *mockFileService) Save(_ context.Context, id string, content io.Reader, _ int64, contentType string) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if _, ok := f.m.kunden[id]; !ok {
		return false, nil
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return false, err
	}

	f.m.files[id] = mockFile{data: data, contentType: contentType}
	return true, nil
}

func (f *mockFileService) Find(_ context.Context, id string) (*FileContent, error) {
	f.m.mu.RLock()
	defer f.m.mu.RUnlock()

	if _, ok := f.m.kunden[id]; !ok {
		return nil, model.ErrKundeNotFound
	}

	file, ok := f.m.files[id]
	if !ok {
		return nil, model.ErrFileNotFound
	}

	return &FileContent{
		Reader:      io.NopCloser(bytes.NewReader(file.data)),
		Size:        int64(len(file.data)),
		ContentType: file.contentType,
	}, nil
}
