package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"buchladen-backend/internal/domains/kunde/model"
	"buchladen-backend/internal/domains/kunde/repository"
	"buchladen-backend/pkg/cache"
	"buchladen-backend/pkg/logger"
)

const (
	cacheKeyPrefix = "kunde:"
	cacheTTL       = 5 * time.Minute
)

type kundeService struct {
	repo  repository.Repository
	cache cache.Cache
}

var _ Service = (*kundeService)(nil)

func NewService(repo repository.Repository, c cache.Cache) Service {
	return &kundeService{repo: repo, cache: c}
}

func (s *kundeService) FindByID(ctx context.Context, id string) (*model.Kunde, error) {
	key := cacheKeyPrefix + id

	var cached model.Kunde
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache lookup failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	kunde, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, kunde, cacheTTL); err != nil {
		logger.Warn("cache store failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return kunde, nil
}

func (s *kundeService) Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Kunde, error) {
	return s.repo.Find(ctx, criteria)
}

func (s *kundeService) Create(ctx context.Context, kunde *model.Kunde) (*model.Kunde, error) {
	if errs := kunde.Validate(false); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	// Pre-checks; the unique indexes stay authoritative for races.
	exists, err := s.repo.NachnameExists(ctx, kunde.Nachname, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &model.NachnameExistsError{Nachname: kunde.Nachname}
	}

	exists, err = s.repo.StrasseExists(ctx, kunde.Strasse, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &model.StrasseExistsError{Strasse: kunde.Strasse}
	}

	kunde.ID = uuid.NewString()
	kunde.Version = 0

	if err := s.repo.Create(ctx, kunde); err != nil {
		return nil, err
	}

	logger.Info("kunde created", map[string]interface{}{"id": kunde.ID, "nachname": kunde.Nachname})
	return kunde, nil
}

func (s *kundeService) Update(ctx context.Context, kunde *model.Kunde, versionToken string) (*model.Kunde, error) {
	expectedVersion, err := strconv.Atoi(versionToken)
	if err != nil {
		return nil, &model.VersionInvalidError{Token: versionToken}
	}

	if errs := kunde.Validate(true); len(errs) > 0 {
		return nil, &model.ValidationError{Errors: errs}
	}

	exists, err := s.repo.NachnameExists(ctx, kunde.Nachname, kunde.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &model.NachnameExistsError{Nachname: kunde.Nachname}
	}

	if err := s.repo.Update(ctx, kunde, expectedVersion); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cacheKeyPrefix+kunde.ID); err != nil {
		logger.Warn("cache invalidation failed", map[string]interface{}{"id": kunde.ID, "error": err.Error()})
	}

	logger.Info("kunde updated", map[string]interface{}{"id": kunde.ID, "version": kunde.Version})
	return kunde, nil
}

func (s *kundeService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		if err := s.cache.Delete(ctx, cacheKeyPrefix+id); err != nil {
			logger.Warn("cache invalidation failed", map[string]interface{}{"id": id, "error": err.Error()})
		}
		logger.Info("kunde deleted", map[string]interface{}{"id": id})
	}

	return deleted, nil
}
