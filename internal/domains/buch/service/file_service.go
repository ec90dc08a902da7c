package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"buchladen-backend/internal/domains/buch/model"
	"buchladen-backend/internal/domains/buch/repository"
	"buchladen-backend/internal/infrastructure/storage"
	"buchladen-backend/pkg/logger"
)

// blobPrefix namespaces buch attachments inside the shared bucket.
const blobPrefix = "buecher/"

type fileService struct {
	repo  repository.Repository
	store storage.BlobStore
}

var _ FileService = (*fileService)(nil)

func NewFileService(repo repository.Repository, store storage.BlobStore) FileService {
	return &fileService{repo: repo, store: store}
}

func (s *fileService) Save(ctx context.Context, id string, content io.Reader, size int64, contentType string) (bool, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		// A missing owner is a soft failure on this path, not an error.
		return false, nil
	}

	// Overwrite semantics: purge everything under the id before the
	// new blob is written, so at most one live blob per id survives.
	removed, err := s.store.RemoveByPrefix(ctx, blobPrefix+id+"/")
	if err != nil {
		return false, err
	}
	if removed > 0 {
		logger.Debug("replaced previous file", map[string]interface{}{"id": id, "removed": removed})
	}

	key := blobPrefix + id + "/" + uuid.NewString()
	if err := s.store.Put(ctx, key, content, size, contentType); err != nil {
		return false, err
	}

	logger.Info("file stored", map[string]interface{}{"id": id, "contentType": contentType})
	return true, nil
}

func (s *fileService) Find(ctx context.Context, id string) (*FileContent, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrBuchNotFound
	}

	infos, err := s.store.List(ctx, blobPrefix+id+"/")
	if err != nil {
		return nil, err
	}

	switch len(infos) {
	case 0:
		return nil, model.ErrFileNotFound
	case 1:
		// fall through
	default:
		// Delete-before-save should make this impossible; the read
		// path still refuses to guess which blob is current.
		return nil, model.ErrMultipleFiles
	}

	reader, info, err := s.store.Get(ctx, infos[0].Key)
	if err != nil {
		return nil, err
	}

	return &FileContent{
		Reader:      reader,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}
