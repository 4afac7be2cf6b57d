// Package service wires the erdscan pipeline stages together.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/raphaelgruber/erdscan/internal/metrics"
	"github.com/raphaelgruber/erdscan/internal/models"
	"github.com/raphaelgruber/erdscan/internal/parser"
)

// entityNamespace seeds ids for tables that carry no object number.
var entityNamespace = uuid.MustParse("7b1f0c6e-3d5a-4c2e-9a61-2f8d4e0b9c17")

// ScanService scrapes table definitions from AL source trees.
type ScanService struct {
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewScanService creates a new scan service. A nil logger uses slog.Default
// and a nil collector disables timing.
func NewScanService(logger *slog.Logger, collector *metrics.Collector) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &ScanService{logger: logger, metrics: collector}
}

// ScanOptions configures a directory scan.
type ScanOptions struct {
	// Suffix selects table files by base name (default ".Table.al")
	Suffix string
	// Concurrency sets number of parallel parsers (default 4)
	Concurrency int
	// OnFile is called after each file is parsed; may be called from
	// several goroutines.
	OnFile func(done, total int, path string)
}

// ScanResult summarizes a scan.
type ScanResult struct {
	Files    int
	Tables   int
	Entities []models.Entity
	Errors   []string
}

// CollectFiles walks a directory and returns all table files, sorted.
func (s *ScanService) CollectFiles(dirPath, suffix string) ([]string, error) {
	if suffix == "" {
		suffix = ".Table.al"
	}

	var files []string
	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFn); err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}
	slices.Sort(files)
	return files, nil
}

// Scan collects and parses every table file under dirPath. Files that fail
// to parse are reported in ScanResult.Errors and skipped; cancellation of
// ctx aborts the scan.
func (s *ScanService) Scan(ctx context.Context, dirPath string, opts ScanOptions) (*ScanResult, error) {
	var files []string
	err := s.metrics.Time(metrics.StageScan, func() error {
		var err error
		files, err = s.CollectFiles(dirPath, opts.Suffix)
		return err
	})
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	s.logger.Info("parsing table files", "dir", dirPath, "files", len(files), "concurrency", concurrency)

	perFile := make([][]parser.Table, len(files))
	var (
		done     atomic.Int32
		errorsMu sync.Mutex
		errs     []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			tables, err := s.parseFile(path)
			if err != nil {
				errorsMu.Lock()
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				errorsMu.Unlock()
				s.logger.Warn("failed to parse table file", "file", path, "error", err)
			}
			perFile[i] = tables

			n := done.Add(1)
			if opts.OnFile != nil {
				opts.OnFile(int(n), len(files), path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse table files: %w", err)
	}

	result := &ScanResult{Files: len(files)}
	slices.Sort(errs)
	result.Errors = errs

	seen := make(map[string]string)
	for i, tables := range perFile {
		for _, tbl := range tables {
			result.Tables++
			e := toEntity(files[i], tbl)
			if first, dup := seen[e.ID]; dup {
				e.ID = syntheticID(files[i], tbl.Name)
				result.Errors = append(result.Errors, fmt.Sprintf("%s: table %s %q duplicates id of %s, using %s",
					files[i], tbl.Number, tbl.Name, first, e.ID))
			}
			seen[e.ID] = files[i]
			result.Entities = append(result.Entities, e)
		}
	}
	if result.Entities == nil {
		result.Entities = []models.Entity{}
	}

	s.logger.Info("scan complete", "files", result.Files, "tables", result.Tables, "errors", len(result.Errors))
	return result, nil
}

func (s *ScanService) parseFile(path string) ([]parser.Table, error) {
	var tables []parser.Table
	err := s.metrics.Time(metrics.StageParse, func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		tables, err = parser.ParseTables(f)
		return err
	})
	return tables, err
}

// toEntity converts a parsed table. The object number becomes the id when
// present.
func toEntity(path string, tbl parser.Table) models.Entity {
	e := models.Entity{
		ID:             tbl.Number,
		Name:           tbl.Name,
		Columns:        models.WithColumns(tbl.Fields...),
		LinkedEntities: []string{},
	}
	if e.ID == "" {
		e.ID = syntheticID(path, tbl.Name)
	}
	if tbl.Caption != "" && tbl.Caption != tbl.Name {
		caption := tbl.Caption
		e.Description = &caption
	}
	return e
}

// syntheticID derives a stable id from the file path and table name.
func syntheticID(path, name string) string {
	return uuid.NewSHA1(entityNamespace, []byte(filepath.ToSlash(path)+"\x00"+name)).String()
}
