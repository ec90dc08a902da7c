package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buchladen-backend/internal/domains/buch/model"
)

// fakeRepo is an in-memory Repository with the same conditional-write
// semantics as the Postgres implementation.
type fakeRepo struct {
	buecher map[string]model.Buch
	queried bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{buecher: make(map[string]model.Buch)}
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*model.Buch, error) {
	r.queried = true
	buch, ok := r.buecher[id]
	if !ok {
		return nil, model.ErrBuchNotFound
	}
	return &buch, nil
}

func (r *fakeRepo) Find(_ context.Context, _ model.SearchCriteria) ([]model.Buch, error) {
	r.queried = true
	result := []model.Buch{}
	for _, b := range r.buecher {
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeRepo) Exists(_ context.Context, id string) (bool, error) {
	r.queried = true
	_, ok := r.buecher[id]
	return ok, nil
}

func (r *fakeRepo) TitelExists(_ context.Context, titel, excludeID string) (bool, error) {
	r.queried = true
	for id, b := range r.buecher {
		if b.Titel == titel && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) IsbnExists(_ context.Context, isbn, excludeID string) (bool, error) {
	r.queried = true
	for id, b := range r.buecher {
		if b.Isbn == isbn && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Create(_ context.Context, buch *model.Buch) error {
	r.queried = true
	buch.Version = 0
	buch.CreatedAt = time.Now()
	buch.UpdatedAt = buch.CreatedAt
	r.buecher[buch.ID] = *buch
	return nil
}

func (r *fakeRepo) Update(_ context.Context, buch *model.Buch, expectedVersion int) error {
	r.queried = true
	current, ok := r.buecher[buch.ID]
	if !ok {
		return model.ErrBuchNotFound
	}
	if current.Version != expectedVersion {
		return &model.VersionOutdatedError{ID: buch.ID, Version: expectedVersion}
	}
	buch.Version = current.Version + 1
	buch.Isbn = current.Isbn
	buch.CreatedAt = current.CreatedAt
	buch.UpdatedAt = time.Now()
	r.buecher[buch.ID] = *buch
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	r.queried = true
	if _, ok := r.buecher[id]; !ok {
		return false, nil
	}
	delete(r.buecher, id)
	return true, nil
}

// noopCache never hits and never fails.
type noopCache struct{}

func (noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noopCache) Delete(context.Context, ...string) error { return nil }
func (noopCache) Ping(context.Context) error              { return nil }

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, noopCache{}), repo
}

func buchFixture(titel, isbn string) *model.Buch {
	return &model.Buch{
		Titel:  titel,
		Verlag: model.VerlagFoo,
		Preis:  decimal.NewFromFloat(11.1),
		Isbn:   isbn,
	}
}

func TestCreateAssignsIDAndVersionZero(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	second, err := svc.Create(context.Background(), buchFixture("Beta", "9783827315526"))
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, second.ID)
}

func TestCreateRejectsInvalidBuchWithoutPersisting(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), &model.Buch{})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "titel")
	assert.Empty(t, repo.buecher)
}

func TestCreateRejectsDuplicateTitel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, buchFixture("Alpha", "9783827315526"))
	var titelErr *model.TitelExistsError
	require.ErrorAs(t, err, &titelErr)
	assert.Equal(t, "Alpha", titelErr.Titel)

	// The first record is untouched by the failed create.
	found, err := svc.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Version)
	assert.Equal(t, "Alpha", found.Titel)
}

func TestCreateRejectsDuplicateIsbn(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, buchFixture("Beta", "9783897225831"))
	var isbnErr *model.IsbnExistsError
	require.ErrorAs(t, err, &isbnErr)
}

func TestUpdateIncrementsVersionExactlyOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	changed := buchFixture("Alpha Revised", "9783897225831")
	changed.ID = created.ID

	updated, err := svc.Update(ctx, changed, "0")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	changed2 := buchFixture("Alpha Third", "9783897225831")
	changed2.ID = created.ID
	updated, err = svc.Update(ctx, changed2, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
}

func TestUpdateRejectsStaleVersion(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	changed := buchFixture("Alpha Revised", "9783897225831")
	changed.ID = created.ID
	_, err = svc.Update(ctx, changed, "0")
	require.NoError(t, err)

	// Reusing the already-consumed version must fail.
	again := buchFixture("Alpha Again", "9783897225831")
	again.ID = created.ID
	_, err = svc.Update(ctx, again, "0")

	var outdated *model.VersionOutdatedError
	require.ErrorAs(t, err, &outdated)
}

func TestUpdateRejectsMalformedTokenBeforePersistence(t *testing.T) {
	svc, repo := newTestService()

	buch := buchFixture("Alpha", "9783897225831")
	buch.ID = "e2f897f0-44ab-4a77-b33a-a8b1ed388c85"
	_, err := svc.Update(context.Background(), buch, "abc")

	var invalid *model.VersionInvalidError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, repo.queried, "malformed token must be rejected before any repository call")
}

func TestUpdateAllowsKeepingOwnTitel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	same := buchFixture("Alpha", "9783897225831")
	same.ID = created.ID

	updated, err := svc.Update(ctx, same, "0")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
}

func TestUpdateRejectsTitelOfOtherBuch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, buchFixture("Beta", "9783827315526"))
	require.NoError(t, err)

	renamed := buchFixture("Alpha", "9783827315526")
	renamed.ID = second.ID
	_, err = svc.Update(ctx, renamed, "0")

	var titelErr *model.TitelExistsError
	require.ErrorAs(t, err, &titelErr)
}

func TestUpdateMissingBuch(t *testing.T) {
	svc, _ := newTestService()

	buch := buchFixture("Alpha", "9783897225831")
	buch.ID = "e2f897f0-44ab-4a77-b33a-a8b1ed388c85"
	_, err := svc.Update(context.Background(), buch, "0")

	assert.ErrorIs(t, err, model.ErrBuchNotFound)
}

func TestDeleteReportsWhetherAnythingWasDeleted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCreateThenFindByIDRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, buchFixture("Alpha", "9783897225831"))
	require.NoError(t, err)

	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.Titel, found.Titel)
	assert.Equal(t, created.Isbn, found.Isbn)
	assert.True(t, created.Preis.Equal(found.Preis))
	assert.Equal(t, created.Version, found.Version)
}
