package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buchladen-backend/internal/domains/buch/model"
)

func TestMockFindWithoutCriteriaSortsByTitel(t *testing.T) {
	svc, _ := NewMockService()

	buecher, err := svc.Find(context.Background(), model.SearchCriteria{})
	require.NoError(t, err)
	require.NotEmpty(t, buecher)

	titles := make([]string, len(buecher))
	for i, b := range buecher {
		titles[i] = b.Titel
	}
	assert.True(t, sort.StringsAreSorted(titles), "expected ascending titel order, got %v", titles)
}

func TestMockFindByTitelSubstring(t *testing.T) {
	svc, _ := NewMockService()

	buecher, err := svc.Find(context.Background(), model.SearchCriteria{Titel: "lph"})
	require.NoError(t, err)

	require.Len(t, buecher, 1)
	assert.Equal(t, "Alpha", buecher[0].Titel)
}

func TestMockFindIgnoresOverlongTitelFilter(t *testing.T) {
	svc, _ := NewMockService()

	all, err := svc.Find(context.Background(), model.SearchCriteria{})
	require.NoError(t, err)

	filtered, err := svc.Find(context.Background(), model.SearchCriteria{
		Titel: "this filter value is far too long to be applied",
	})
	require.NoError(t, err)

	assert.Equal(t, len(all), len(filtered))
}

func TestMockFindBySchlagwortRequiresAllTags(t *testing.T) {
	svc, _ := NewMockService()
	ctx := context.Background()

	js, err := svc.Find(ctx, model.SearchCriteria{
		Schlagwoerter: []string{model.SchlagwortJavascript},
	})
	require.NoError(t, err)
	assert.Len(t, js, 2)

	both, err := svc.Find(ctx, model.SearchCriteria{
		Schlagwoerter: []string{model.SchlagwortJavascript, model.SchlagwortTypescript},
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Beta", both[0].Titel)
}

func TestMockFindNoMatchIsEmptyNotError(t *testing.T) {
	svc, _ := NewMockService()

	buecher, err := svc.Find(context.Background(), model.SearchCriteria{Titel: "zzz"})

	require.NoError(t, err)
	assert.Empty(t, buecher)
}

func TestMockUpdatePreservesIsbn(t *testing.T) {
	svc, _ := NewMockService()
	ctx := context.Background()

	created, err := svc.Create(ctx, buchFixture("Gamma", "9780201616224"))
	require.NoError(t, err)

	changed := buchFixture("Gamma Revised", "")
	changed.ID = created.ID

	updated, err := svc.Update(ctx, changed, "0")
	require.NoError(t, err)

	assert.Equal(t, "9780201616224", updated.Isbn, "isbn is immutable after creation")
}
