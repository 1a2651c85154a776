// Package lifecycle is the single gate through which application records are
// created or change status.
package lifecycle

import (
	"context"
	"time"

	"driver-portal/internal/artifact"
	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/common/metrics"
	"driver-portal/internal/models"
	"driver-portal/internal/store"

	"github.com/google/uuid"
)

// maxIDAttempts bounds the duplicate-id retry loop. With 8-char ids the
// duplicate check is the collision backstop, so a handful of retries is
// plenty.
const maxIDAttempts = 5

// Notifier is the optional post-submission collaborator. Failures are logged
// and never fail the submission.
type Notifier interface {
	SubmissionReceived(ctx context.Context, app models.Application, receiptPath string) error
}

// SubmitResult reports a submission outcome. ReceiptErr being non-nil means
// the record is durable but the receipt could not be generated yet (it stays
// regenerable on demand).
type SubmitResult struct {
	Application models.Application
	ReceiptPath string
	ReceiptErr  error
}

type Service struct {
	store    store.Store
	receipts *artifact.Storage
	notifier Notifier
	logger   logger.Logger
	now      func() time.Time
	newID    func() string
}

func New(st store.Store, receipts *artifact.Storage, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		store:    st,
		receipts: receipts,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "lifecycle"}),
		now:      time.Now,
		newID:    newRecordID,
	}
}

// newRecordID truncates a v4 uuid to the 8-char form the rest of the system
// (receipt filenames, admin UI) expects. The store's duplicate check backs it
// up; Submit retries on collision.
func newRecordID() string {
	return uuid.New().String()[:8]
}

// Submit validates the payload, persists a new pending record, and derives
// its receipt. Receipt generation failure does not roll back the record.
func (s *Service) Submit(ctx context.Context, fields map[string]interface{}) (*SubmitResult, error) {
	if err := validateSubmission(fields); err != nil {
		metrics.SubmissionsRejected.Inc()
		return nil, err
	}

	app := models.Application{
		Status:      models.StatusPending,
		SubmittedAt: s.now().UTC(),
		Fields:      cloneFields(fields),
	}

	var appendErr error
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		app.ID = s.newID()
		_, appendErr = s.store.AppendAtomic(ctx, app)
		if appendErr == nil {
			break
		}
		if !apperrors.HasCode(appendErr, apperrors.ErrCodeDuplicateID) {
			return nil, appendErr
		}
		s.logger.Warn("id collision, retrying with fresh id", map[string]interface{}{
			"applicationId": app.ID,
			"attempt":       attempt,
		})
	}
	if appendErr != nil {
		return nil, appendErr
	}

	metrics.ApplicationsSubmitted.Inc()
	s.logger.Info("application record created", map[string]interface{}{
		"applicationId": app.ID,
		"status":        string(app.Status),
	})

	result := &SubmitResult{Application: app}

	path, err := s.receipts.Write(app)
	if err != nil {
		s.logger.Error("receipt generation failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err.Error(),
		})
		result.ReceiptErr = err
	} else {
		result.ReceiptPath = path
	}

	if s.notifier != nil {
		if err := s.notifier.SubmissionReceived(ctx, app, result.ReceiptPath); err != nil {
			s.logger.Warn("submission notification failed", map[string]interface{}{
				"applicationId": app.ID,
				"error":         err.Error(),
			})
		}
	}

	return result, nil
}

// ChangeStatus applies a named transition. The mutator re-verifies the
// record's current status inside the store's critical section, so a
// concurrent transition that already moved the record is rejected instead of
// silently overwritten.
func (s *Service) ChangeStatus(ctx context.Context, id string, action models.Action) (models.Application, error) {
	edge, ok := models.TransitionFor(action)
	if !ok {
		return models.Application{}, apperrors.NewInvalidTransitionError("", string(action))
	}

	app, err := s.store.UpdateAtomic(ctx, id, func(a *models.Application) error {
		if a.Status != edge.From {
			return apperrors.NewInvalidTransitionError(string(a.Status), string(action))
		}
		a.Status = edge.To
		return nil
	})
	if err != nil {
		return models.Application{}, err
	}

	metrics.StatusTransitions.WithLabelValues(string(action)).Inc()
	s.logger.Info("status transition applied", map[string]interface{}{
		"applicationId": id,
		"action":        string(action),
		"status":        string(app.Status),
	})
	return app, nil
}

// List returns the full collection in insertion order.
func (s *Service) List(ctx context.Context) ([]models.Application, error) {
	return s.store.LoadAll(ctx)
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id string) (models.Application, error) {
	apps, err := s.store.LoadAll(ctx)
	if err != nil {
		return models.Application{}, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return models.Application{}, apperrors.NewRecordNotFoundError(id)
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
