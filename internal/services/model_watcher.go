package services

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hoopiq/courtcast/internal/ml"
	"github.com/hoopiq/courtcast/internal/prediction"
)

// ModelWatcher keeps the serving model fresh: it loads the artifact pair
// at startup and polls on a cron schedule, swapping a newly trained pair
// in wholesale when the trainer replaces the files. The serving path is
// never blocked; between successful loads it keeps whatever pair (or
// heuristic mode) it had.
type ModelWatcher struct {
	dir     string
	base    string
	service *prediction.Service
	logger  *logrus.Logger
	cron    *cron.Cron

	loadedVersion string
}

func NewModelWatcher(dir, base string, service *prediction.Service, logger *logrus.Logger) *ModelWatcher {
	return &ModelWatcher{
		dir:     dir,
		base:    base,
		service: service,
		logger:  logger,
	}
}

// LoadInitial attempts the startup load. A missing artifact is expected
// for an untrained deployment and is logged once, not treated as fatal;
// the service starts in heuristic mode.
func (w *ModelWatcher) LoadInitial() {
	if err := w.reload(); err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			w.logger.Warn("No trained model artifact found; serving heuristic predictions")
			return
		}
		w.logger.WithError(err).Error("Failed to load model artifact; serving heuristic predictions")
	}
}

// Start begins polling on the given cron schedule (e.g. "@every 1m").
func (w *ModelWatcher) Start(schedule string) error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(schedule, w.check); err != nil {
		return fmt.Errorf("invalid model reload schedule %q: %w", schedule, err)
	}
	w.cron.Start()
	w.logger.WithField("schedule", schedule).Info("Model artifact watcher started")
	return nil
}

// Stop halts polling.
func (w *ModelWatcher) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

func (w *ModelWatcher) check() {
	version, err := ml.ArtifactVersion(w.dir, w.base)
	if err != nil {
		if !errors.Is(err, ml.ErrModelUnavailable) {
			w.logger.WithError(err).Warn("Failed to stat model artifact")
		}
		return
	}
	if version == w.loadedVersion {
		return
	}
	if err := w.reload(); err != nil {
		w.logger.WithError(err).Error("Failed to reload model artifact; keeping previous model")
	}
}

func (w *ModelWatcher) reload() error {
	model, scaler, err := ml.LoadArtifact(w.dir, w.base)
	if err != nil {
		return err
	}
	version, err := ml.ArtifactVersion(w.dir, w.base)
	if err != nil {
		return err
	}

	w.service.SetModelPair(&prediction.ModelPair{
		Model:   model,
		Scaler:  scaler,
		Version: version,
	})
	w.loadedVersion = version

	w.logger.WithFields(logrus.Fields{
		"algorithm": model.Name(),
		"version":   version,
	}).Info("Model artifact loaded")
	return nil
}
