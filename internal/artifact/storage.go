package artifact

import (
	"context"
	"os"
	"path/filepath"

	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/common/metrics"
	"driver-portal/internal/models"
	"driver-portal/internal/store"
)

// Storage keeps one receipt file per record id. Receipts live on a separate
// lifetime from records: losing one is harmless because Ensure regenerates it
// from the record on demand.
type Storage struct {
	dir     string
	gen     *Generator
	records store.Store
	logger  logger.Logger
}

func NewStorage(dir string, gen *Generator, records store.Store, log logger.Logger) *Storage {
	return &Storage{
		dir:     dir,
		gen:     gen,
		records: records,
		logger:  log.WithFields(map[string]interface{}{"component": "artifact"}),
	}
}

// Path is the deterministic artifact location for a record id.
func (s *Storage) Path(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}

// Locate returns the stored receipt path for id, or false when no artifact
// file exists.
func (s *Storage) Locate(id string) (string, bool) {
	path := s.Path(id)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Write renders the receipt for a record and stores it, replacing any
// previous artifact for the same id.
func (s *Storage) Write(app models.Application) (string, error) {
	data, err := s.gen.Render(app)
	if err != nil {
		metrics.ArtifactRenderFailures.Inc()
		return "", apperrors.NewArtifactFailedError(app.ID, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		metrics.ArtifactRenderFailures.Inc()
		return "", apperrors.NewArtifactFailedError(app.ID, err)
	}

	path := s.Path(app.ID)
	tmp, err := os.CreateTemp(s.dir, "."+app.ID+"-*.pdf")
	if err != nil {
		metrics.ArtifactRenderFailures.Inc()
		return "", apperrors.NewArtifactFailedError(app.ID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.ArtifactRenderFailures.Inc()
		return "", apperrors.NewArtifactFailedError(app.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.ArtifactRenderFailures.Inc()
		return "", apperrors.NewArtifactFailedError(app.ID, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		metrics.ArtifactRenderFailures.Inc()
		return "", apperrors.NewArtifactFailedError(app.ID, err)
	}

	metrics.ArtifactRenders.Inc()
	return path, nil
}

// Ensure returns the existing receipt for id, regenerating it from the record
// when the artifact file has gone missing. An unknown record id is the only
// failure a caller should surface as not-found.
func (s *Storage) Ensure(ctx context.Context, id string) (string, error) {
	if path, ok := s.Locate(id); ok {
		return path, nil
	}

	apps, err := s.records.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	for _, app := range apps {
		if app.ID == id {
			s.logger.Info("regenerating missing receipt", map[string]interface{}{"applicationId": id})
			return s.Write(app)
		}
	}
	return "", apperrors.NewRecordNotFoundError(id)
}
