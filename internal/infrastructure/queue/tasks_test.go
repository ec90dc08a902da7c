package queue

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buchladen-backend/internal/infrastructure/storage"
)

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) Get(_ context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(data)), &storage.ObjectInfo{Key: key}, nil
}

func (s *memStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key})
		}
	}
	return infos, nil
}

func (s *memStore) RemoveByPrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
			removed++
		}
	}
	return removed, nil
}

func put(t *testing.T, store *memStore, key string) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), key, strings.NewReader("x"), 1, ""))
}

func TestCleanupTargetedRemovesOnlyGivenID(t *testing.T) {
	store := newMemStore()
	put(t, store, "buecher/id-1/blob-a")
	put(t, store, "buecher/id-2/blob-b")

	handler := NewFileCleanupHandler(store, map[string]ExistsFunc{
		"buecher": func(context.Context, string) (bool, error) { return false, nil },
	})

	task, err := NewFileCleanupTask("buecher", "id-1")
	require.NoError(t, err)
	require.NoError(t, handler.ProcessTask(context.Background(), task))

	assert.NotContains(t, store.objects, "buecher/id-1/blob-a")
	assert.Contains(t, store.objects, "buecher/id-2/blob-b")
}

func TestCleanupSweepRemovesOrphansOnly(t *testing.T) {
	store := newMemStore()
	put(t, store, "buecher/live/blob-a")
	put(t, store, "buecher/orphan/blob-b")
	put(t, store, "buecher/orphan/blob-c")

	handler := NewFileCleanupHandler(store, map[string]ExistsFunc{
		"buecher": func(_ context.Context, id string) (bool, error) {
			return id == "live", nil
		},
	})

	task, err := NewFileCleanupTask("buecher", "")
	require.NoError(t, err)
	require.NoError(t, handler.ProcessTask(context.Background(), task))

	assert.Contains(t, store.objects, "buecher/live/blob-a")
	assert.NotContains(t, store.objects, "buecher/orphan/blob-b")
	assert.NotContains(t, store.objects, "buecher/orphan/blob-c")
}

func TestCleanupUnknownResourceFails(t *testing.T) {
	handler := NewFileCleanupHandler(newMemStore(), map[string]ExistsFunc{})

	task, err := NewFileCleanupTask("zeitschriften", "")
	require.NoError(t, err)

	assert.Error(t, handler.ProcessTask(context.Background(), task))
}
