package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buchladen-backend/internal/domains/kunde/model"
)

func kundeFixture(nachname, strasse string) *model.Kunde {
	return &model.Kunde{
		Nachname: nachname,
		Vorname:  "Carla",
		Strasse:  strasse,
	}
}

func TestMockFindWithoutCriteriaSortsByNachname(t *testing.T) {
	svc, _ := NewMockService()

	kunden, err := svc.Find(context.Background(), model.SearchCriteria{})
	require.NoError(t, err)
	require.NotEmpty(t, kunden)

	names := make([]string, len(kunden))
	for i, k := range kunden {
		names[i] = k.Nachname
	}
	assert.True(t, sort.StringsAreSorted(names), "expected ascending nachname order, got %v", names)
}

func TestMockFindByVornameSubstring(t *testing.T) {
	svc, _ := NewMockService()

	kunden, err := svc.Find(context.Background(), model.SearchCriteria{Vorname: "nna"})
	require.NoError(t, err)

	require.Len(t, kunden, 1)
	assert.Equal(t, "Anna", kunden[0].Vorname)
}

func TestMockCreateAssignsIDAndVersionZero(t *testing.T) {
	svc, _ := NewMockService()

	created, err := svc.Create(context.Background(), kundeFixture("Gammaberg", "Cedernstrasse"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Version)
}

func TestMockCreateRejectsDuplicateNachname(t *testing.T) {
	svc, _ := NewMockService()

	_, err := svc.Create(context.Background(), kundeFixture("Alphastein", "Cedernstrasse"))

	var nachnameErr *model.NachnameExistsError
	require.ErrorAs(t, err, &nachnameErr)
	assert.Equal(t, "Alphastein", nachnameErr.Nachname)
}

func TestMockCreateRejectsDuplicateStrasse(t *testing.T) {
	svc, _ := NewMockService()

	_, err := svc.Create(context.Background(), kundeFixture("Gammaberg", "Ahornweg"))

	var strasseErr *model.StrasseExistsError
	require.ErrorAs(t, err, &strasseErr)
}

func TestMockUpdateVersionProtocol(t *testing.T) {
	svc, _ := NewMockService()
	ctx := context.Background()

	created, err := svc.Create(ctx, kundeFixture("Gammaberg", "Cedernstrasse"))
	require.NoError(t, err)

	changed := kundeFixture("Gammaberg-Neu", "Cedernstrasse")
	changed.ID = created.ID

	updated, err := svc.Update(ctx, changed, "0")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	// Stale token.
	again := kundeFixture("Gammaberg-Alt", "Cedernstrasse")
	again.ID = created.ID
	_, err = svc.Update(ctx, again, "0")
	var outdated *model.VersionOutdatedError
	require.ErrorAs(t, err, &outdated)

	// Malformed token.
	_, err = svc.Update(ctx, again, "x")
	var invalid *model.VersionInvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestMockUpdatePreservesStrasse(t *testing.T) {
	svc, _ := NewMockService()
	ctx := context.Background()

	created, err := svc.Create(ctx, kundeFixture("Gammaberg", "Cedernstrasse"))
	require.NoError(t, err)

	changed := kundeFixture("Gammaberg", "Dahlienweg")
	changed.ID = created.ID

	updated, err := svc.Update(ctx, changed, "0")
	require.NoError(t, err)

	assert.Equal(t, "Cedernstrasse", updated.Strasse, "strasse is immutable after creation")
}

func TestMockDeleteReportsWhetherAnythingWasDeleted(t *testing.T) {
	svc, _ := NewMockService()
	ctx := context.Background()

	created, err := svc.Create(ctx, kundeFixture("Gammaberg", "Cedernstrasse"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
