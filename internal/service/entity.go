package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/erdscan/internal/metrics"
	"github.com/raphaelgruber/erdscan/internal/models"
	"github.com/raphaelgruber/erdscan/internal/scoring"
	"github.com/raphaelgruber/erdscan/internal/store"
	"github.com/raphaelgruber/erdscan/internal/validate"
)

// ErrNoGraphStore is returned by Sync when no graph store is configured.
var ErrNoGraphStore = errors.New("no graph store configured")

// GraphStore persists scored collections.
type GraphStore interface {
	SyncRun(ctx context.Context, entities []models.Entity) (string, error)
	GetRun(ctx context.Context, id string) (*models.ScoreRun, error)
}

// EntityService loads, checks, scores and persists entity documents.
type EntityService struct {
	logger  *slog.Logger
	metrics *metrics.Collector
	graph   GraphStore
}

// NewEntityService creates a new entity service. graph may be nil when the
// caller never syncs.
func NewEntityService(logger *slog.Logger, collector *metrics.Collector, graph GraphStore) *EntityService {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &EntityService{logger: logger, metrics: collector, graph: graph}
}

// Load reads an entities document.
func (s *EntityService) Load(path string) ([]models.Entity, error) {
	var entities []models.Entity
	err := s.metrics.Time(metrics.StageLoad, func() error {
		var err error
		entities, err = store.Load(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded entities", "file", path, "count", len(entities))
	return entities, nil
}

// Save writes an entities document.
func (s *EntityService) Save(path string, entities []models.Entity) error {
	err := s.metrics.Time(metrics.StageSave, func() error {
		return store.Save(path, entities)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("saved entities", "file", path, "count", len(entities))
	return nil
}

// Validate reports document problems and logs each one.
func (s *EntityService) Validate(entities []models.Entity) validate.Report {
	var report validate.Report
	_ = s.metrics.Time(metrics.StageValidate, func() error {
		report = validate.Validate(entities)
		return nil
	})

	for _, issue := range report.Issues {
		s.logger.Debug("validation issue", "kind", issue.Kind, "index", issue.Index, "id", issue.EntityID, "name", issue.Name, "detail", issue.Detail)
	}
	s.logger.Info("validation complete", "entities", report.Entities, "issues", len(report.Issues), "blocking", report.Blocking())
	return report
}

// Score annotates entities with importance, links and second importance.
func (s *EntityService) Score(entities []models.Entity, opts ...scoring.Option) ([]models.Entity, scoring.Stats, error) {
	var scored []models.Entity
	err := s.metrics.Time(metrics.StageScore, func() error {
		var err error
		scored, err = scoring.Score(entities, opts...)
		return err
	})
	if err != nil {
		return nil, scoring.Stats{}, fmt.Errorf("score entities: %w", err)
	}

	stats := scoring.Summarize(scored)
	s.logger.Info("scoring complete",
		"entities", stats.Entities,
		"links", stats.Links,
		"linked", stats.Linked,
		"max_importance", stats.MaxImportance,
		"max_second_importance", stats.MaxSecondImportance,
	)
	return scored, stats, nil
}

// ScoreFile loads in, scores it and writes the result to out (which may be
// the same path). Scoring failures leave out untouched.
func (s *EntityService) ScoreFile(in, out string, opts ...scoring.Option) ([]models.Entity, scoring.Stats, error) {
	entities, err := s.Load(in)
	if err != nil {
		return nil, scoring.Stats{}, err
	}

	scored, stats, err := s.Score(entities, opts...)
	if err != nil {
		return nil, stats, err
	}

	if out != "" {
		if err := s.Save(out, scored); err != nil {
			return nil, stats, err
		}
	}
	return scored, stats, nil
}

// Sync pushes a scored collection to the graph store and returns the run as
// stored there.
func (s *EntityService) Sync(ctx context.Context, entities []models.Entity) (*models.ScoreRun, error) {
	if s.graph == nil {
		return nil, ErrNoGraphStore
	}

	var run *models.ScoreRun
	err := s.metrics.Time(metrics.StageSync, func() error {
		runID, err := s.graph.SyncRun(ctx, entities)
		if err != nil {
			return err
		}
		run, err = s.graph.GetRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("read back run %s: %w", runID, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync run: %w", err)
	}

	if run.Entities != len(entities) {
		s.logger.Warn("stored run entity count differs", "want", len(entities), "stored", run.Entities)
	}
	s.logger.Info("synced entities to graph store", "entities", run.Entities, "links", run.Links)
	return run, nil
}
