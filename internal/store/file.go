package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/models"
)

// FileStore persists the collection as one JSON array file. The unit of
// persistence is always the whole collection: a single rename either lands or
// doesn't, which keeps the file intact across crashes mid-write.
//
// Writers are serialized in-process only. Multiple processes writing the same
// file are out of contract; use the postgres backend for that.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	logger logger.Logger
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"store": "file", "path": path}),
	}
}

func (s *FileStore) LoadAll(ctx context.Context) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *FileStore) AppendAtomic(ctx context.Context, app models.Application) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, existing := range apps {
		if existing.ID == app.ID {
			return nil, apperrors.NewDuplicateIDError(app.ID)
		}
	}

	apps = append(apps, app.Clone())
	if err := s.persist(apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *FileStore) UpdateAtomic(ctx context.Context, id string, mutate func(*models.Application) error) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.load()
	if err != nil {
		return models.Application{}, err
	}

	idx := -1
	for i := range apps {
		if apps[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Application{}, apperrors.NewRecordNotFoundError(id)
	}

	updated := apps[idx].Clone()
	if err := mutate(&updated); err != nil {
		return models.Application{}, err
	}

	// Identity and submission time never change through a mutator.
	updated.ID = apps[idx].ID
	updated.SubmittedAt = apps[idx].SubmittedAt

	apps[idx] = updated
	if err := s.persist(apps); err != nil {
		return models.Application{}, err
	}
	return updated.Clone(), nil
}

// load reads the freshest snapshot. A missing file is the first-ever access:
// the store initializes itself empty rather than failing.
func (s *FileStore) load() ([]models.Application, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("initializing empty collection", nil)
		if err := s.persist([]models.Application{}); err != nil {
			return nil, err
		}
		return []models.Application{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	if len(raw) == 0 {
		return []models.Application{}, nil
	}

	var apps []models.Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}
	return apps, nil
}

// persist writes the whole collection through a temp file in the same
// directory and renames it over the target, so readers only ever see a
// complete snapshot.
func (s *FileStore) persist(apps []models.Application) error {
	data, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}

	tmp, err := os.CreateTemp(dir, ".applications-*.json")
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStoreUnavailableError(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStoreUnavailableError(err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}
