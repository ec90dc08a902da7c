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
	"github.com/shopspring/decimal"

	"buchladen-backend/internal/domains/buch/model"
)

// mockService is the in-memory stand-in used when no database is
// configured. It honors the same contracts as the persistent service,
// including version counting and uniqueness.
type mockService struct {
	mu      sync.RWMutex
	buecher map[string]model.Buch
	files   map[string]mockFile
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
		buecher: make(map[string]model.Buch),
		files:   make(map[string]mockFile),
	}
	m.seed()
	return m, &mockFileService{m}
}

func (m *mockService) seed() {
	rating := 4
	lieferbar := true
	datum := time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []model.Buch{
		{
			ID:            "00000000-0000-0000-0000-000000000001",
			Titel:         "Alpha",
			Rating:        &rating,
			Art:           model.ArtDruckausgabe,
			Verlag:        model.VerlagFoo,
			Preis:         decimal.NewFromFloat(11.1),
			Lieferbar:     &lieferbar,
			Datum:         &datum,
			Isbn:          "9783897225831",
			Homepage:      "https://acme.at",
			Schlagwoerter: []string{model.SchlagwortJavascript},
		},
		{
			ID:     "00000000-0000-0000-0000-000000000002",
			Titel:  "Beta",
			Art:    model.ArtKindle,
			Verlag: model.VerlagBar,
			Preis:  decimal.NewFromFloat(22.2),
			Isbn:   "9783827315526",
			Schlagwoerter: []string{
				model.SchlagwortJavascript, model.SchlagwortTypescript,
			},
		},
	}

	now := time.Now()
	for _, b := range fixtures {
		b.CreatedAt = now
		b.UpdatedAt = now
		m.buecher[b.ID] = b
	}
}

func (m *mockService) FindByID(_ context.Context, id string) (*model.Buch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buch, ok := m.buecher[id]
	if !ok {
		return nil, model.ErrBuchNotFound
	}
	return &buch, nil
}

func (m *mockService) Find(_ context.Context, criteria model.SearchCriteria) ([]model.Buch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Buch{}
	for _, buch := range m.buecher {
		if matches(buch, criteria) {
			result = append(result, buch)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Titel < result[j].Titel
	})
	return result, nil
}

func matches(buch model.Buch, c model.SearchCriteria) bool {
	if c.Titel != "" && len(c.Titel) < model.MaxTitelFilterLen &&
		!strings.Contains(strings.ToLower(buch.Titel), strings.ToLower(c.Titel)) {
		return false
	}
	if c.Art != "" && string(buch.Art) != c.Art {
		return false
	}
	if c.Verlag != "" && string(buch.Verlag) != c.Verlag {
		return false
	}
	if c.Rating != nil && (buch.Rating == nil || *buch.Rating != *c.Rating) {
		return false
	}
	if c.Lieferbar != nil && (buch.Lieferbar == nil || *buch.Lieferbar != *c.Lieferbar) {
		return false
	}
	if c.Isbn != "" && buch.Isbn != c.Isbn {
		return false
	}
	for _, tag := range c.Schlagwoerter {
		if !containsString(buch.Schlagwoerter, tag) {
			return false
		}
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func (m *mockService) Create(_ context.Context, buch *model.Buch) (*model.Buch, error) {
	if errs := buch.Validate(false); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.buecher {
		if existing.Titel == buch.Titel {
			return nil, &model.TitelExistsError{Titel: buch.Titel}
		}
		if buch.Isbn != "" && existing.Isbn == buch.Isbn {
			return nil, &model.IsbnExistsError{Isbn: buch.Isbn}
		}
	}

	buch.ID = uuid.NewString()
	buch.Version = 0
	buch.CreatedAt = time.Now()
	buch.UpdatedAt = buch.CreatedAt

	m.buecher[buch.ID] = *buch
	return buch, nil
}

func (m *mockService) Update(_ context.Context, buch *model.Buch, versionToken string) (*model.Buch, error) {
	expectedVersion, err := strconv.Atoi(versionToken)
	if err != nil {
		return nil, &model.VersionInvalidError{Token: versionToken}
	}

	if errs := buch.Validate(true); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.buecher {
		if id != buch.ID && existing.Titel == buch.Titel {
			return nil, &model.TitelExistsError{Titel: buch.Titel}
		}
	}

	current, ok := m.buecher[buch.ID]
	if !ok {
		return nil, model.ErrBuchNotFound
	}
	if current.Version != expectedVersion {
		return nil, &model.VersionOutdatedError{ID: buch.ID, Version: expectedVersion}
	}

	buch.Version = current.Version + 1
	buch.Isbn = current.Isbn
	buch.CreatedAt = current.CreatedAt
	buch.UpdatedAt = time.Now()

	m.buecher[buch.ID] = *buch
	return buch, nil
}

func (m *mockService) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buecher[id]; !ok {
		return false, nil
	}
	delete(m.buecher, id)
	return true, nil
}

func (m *mockService) ExportExcel(ctx context.Context) (io.Reader, error) {
	buecher, err := m.Find(ctx, model.SearchCriteria{})
	if err != nil {
		return nil, err
	}
	return writeWorkbook(buecher)
}

// mockFileService serves the attachment contract against the shared
// in-memory store.
type mockFileService struct {
	m *mockService
}

func (f *mockFileService) Save(_ context.Context, id string, content io.Reader, _ int64, contentType string) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if _, ok := f.m.buecher[id]; !ok {
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

	if _, ok := f.m.buecher[id]; !ok {
		return nil, model.ErrBuchNotFound
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
