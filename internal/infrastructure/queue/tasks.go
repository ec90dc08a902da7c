package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"buchladen-backend/internal/infrastructure/storage"
	"buchladen-backend/pkg/logger"
)

// TypeFileCleanup removes blobs whose owning entity no longer exists.
// It is scheduled periodically by cmd/worker and enqueued on demand when
// an entity is deleted with cascade delete disabled.
const TypeFileCleanup = "file:cleanup"

// FileCleanupPayload narrows a cleanup run to one resource prefix, or to
// one entity when ID is set.
type FileCleanupPayload struct {
	Resource string `json:"resource"` // "buecher" or "kunden"
	ID       string `json:"id,omitempty"`
}

// NewFileCleanupTask builds the asynq task for the given scope.
func NewFileCleanupTask(resource, id string) (*asynq.Task, error) {
	payload, err := json.Marshal(FileCleanupPayload{Resource: resource, ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeFileCleanup, payload), nil
}

// ExistsFunc reports whether the entity with the given id still exists.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// FileCleanupHandler deletes orphaned blobs from the store.
type FileCleanupHandler struct {
	store  storage.BlobStore
	exists map[string]ExistsFunc // keyed by resource prefix
}

func NewFileCleanupHandler(store storage.BlobStore, exists map[string]ExistsFunc) *FileCleanupHandler {
	return &FileCleanupHandler{store: store, exists: exists}
}

// ProcessTask implements asynq.Handler.
func (h *FileCleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload FileCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal cleanup payload: %w", err)
	}

	existsFn, ok := h.exists[payload.Resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", payload.Resource)
	}

	// Targeted cleanup for a single deleted entity.
	if payload.ID != "" {
		removed, err := h.store.RemoveByPrefix(ctx, payload.Resource+"/"+payload.ID+"/")
		if err != nil {
			return err
		}
		logger.Info("removed orphaned files", map[string]interface{}{
			"resource": payload.Resource,
			"id":       payload.ID,
			"removed":  removed,
		})
		return nil
	}

	// Full sweep: list every blob under the resource and drop those
	// whose entity is gone.
	infos, err := h.store.List(ctx, payload.Resource+"/")
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	removed := 0
	for _, info := range infos {
		parts := strings.Split(info.Key, "/")
		if len(parts) < 3 {
			continue
		}
		id := parts[1]
		if _, checked := seen[id]; !checked {
			exists, err := existsFn(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to check entity %s/%s: %w", payload.Resource, id, err)
			}
			seen[id] = exists
		}
		if !seen[id] {
			n, err := h.store.RemoveByPrefix(ctx, payload.Resource+"/"+id+"/")
			if err != nil {
				return err
			}
			removed += n
		}
	}

	logger.Info("file cleanup sweep finished", map[string]interface{}{
		"resource": payload.Resource,
		"scanned":  len(infos),
		"removed":  removed,
	})
	return nil
}
