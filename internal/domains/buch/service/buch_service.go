package service

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"buchladen-backend/internal/domains/buch/model"
	"buchladen-backend/internal/domains/buch/repository"
	"buchladen-backend/pkg/cache"
	"buchladen-backend/pkg/logger"
)

const (
	cacheKeyPrefix = "buch:"
	cacheTTL       = 5 * time.Minute
)

type buchService struct {
	repo  repository.Repository
	cache cache.Cache
}

var _ Service = (*buchService)(nil)

func NewService(repo repository.Repository, c cache.Cache) Service {
	return &buchService{repo: repo, cache: c}
}

func (s *buchService) FindByID(ctx context.Context, id string) (*model.Buch, error) {
	key := cacheKeyPrefix + id

	var cached model.Buch
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache lookup failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	buch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, buch, cacheTTL); err != nil {
		logger.Warn("cache store failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return buch, nil
}

func (s *buchService) Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Buch, error) {
	return s.repo.Find(ctx, criteria)
}

func (s *buchService) Create(ctx context.Context, buch *model.Buch) (*model.Buch, error) {
	// 1. Field-level rules, all violations in one pass.
	if errs := buch.Validate(false); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	// 2./3. Uniqueness pre-checks. The unique indexes remain the
	// authoritative answer for concurrent creates; a violation at
	// persist time surfaces as the same duplicate errors.
	exists, err := s.repo.TitelExists(ctx, buch.Titel, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &model.TitelExistsError{Titel: buch.Titel}
	}

	if buch.Isbn != "" {
		exists, err = s.repo.IsbnExists(ctx, buch.Isbn, "")
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &model.IsbnExistsError{Isbn: buch.Isbn}
		}
	}

	// 4. Server-assigned identity; whatever the client sent is ignored.
	buch.ID = uuid.NewString()
	buch.Version = 0

	// 5. Persist.
	if err := s.repo.Create(ctx, buch); err != nil {
		return nil, err
	}

	logger.Info("buch created", map[string]interface{}{"id": buch.ID, "titel": buch.Titel})
	return buch, nil
}

func (s *buchService) Update(ctx context.Context, buch *model.Buch, versionToken string) (*model.Buch, error) {
	// 1. The token must be a usable integer before anything touches
	// the database.
	expectedVersion, err := strconv.Atoi(versionToken)
	if err != nil {
		return nil, &model.VersionInvalidError{Token: versionToken}
	}

	// 2. Field-level rules, including the id format.
	if errs := buch.Validate(true); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	// 3. Uniqueness re-check, excluding the record itself.
	exists, err := s.repo.TitelExists(ctx, buch.Titel, buch.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &model.TitelExistsError{Titel: buch.Titel}
	}

	// 4.-7. Conditional write: existence, version comparison and the
	// increment happen in one statement inside the repository.
	if err := s.repo.Update(ctx, buch, expectedVersion); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cacheKeyPrefix+buch.ID); err != nil {
		logger.Warn("cache invalidation failed", map[string]interface{}{"id": buch.ID, "error": err.Error()})
	}

	logger.Info("buch updated", map[string]interface{}{"id": buch.ID, "version": buch.Version})
	return buch, nil
}

func (s *buchService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		if err := s.cache.Delete(ctx, cacheKeyPrefix+id); err != nil {
			logger.Warn("cache invalidation failed", map[string]interface{}{"id": id, "error": err.Error()})
		}
		logger.Info("buch deleted", map[string]interface{}{"id": id})
	}

	return deleted, nil
}

func (s *buchService) ExportExcel(ctx context.Context) (io.Reader, error) {
	buecher, err := s.repo.Find(ctx, model.SearchCriteria{})
	if err != nil {
		return nil, err
	}
	return writeWorkbook(buecher)
}
