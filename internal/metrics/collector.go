// Package metrics provides in-memory timing statistics for pipeline stages.
package metrics

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"
)

// Stage names recorded by the CLI.
const (
	StageScan     = "scan"
	StageParse    = "parse"
	StageValidate = "validate"
	StageScore    = "score"
	StageLoad     = "load"
	StageSave     = "save"
	StageSync     = "sync"
)

// StageMetrics holds aggregated timings for a single stage.
type StageMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// StageSnapshot provides computed stats from raw metrics.
type StageSnapshot struct {
	Stage       string
	Count       int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents the collected statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Stages        []StageSnapshot // sorted by stage name
}

// Collector aggregates in-memory timing statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	stages    map[string]*StageMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		stages:    make(map[string]*StageMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for a stage.
// Caller must hold write lock.
func (c *Collector) getOrCreate(stage string) *StageMetrics {
	m, ok := c.stages[stage]
	if !ok {
		m = &StageMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.stages[stage] = m
	}
	return m
}

// RecordTiming records one run of a stage.
func (c *Collector) RecordTiming(stage string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(stage)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Time runs fn and records its duration under stage, whether or not fn
// fails.
func (c *Collector) Time(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.RecordTiming(stage, time.Since(start))
	return err
}

// Snapshot returns a point-in-time snapshot of all stages.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{UptimeSeconds: time.Since(c.startTime).Seconds()}
	for stage, m := range c.stages {
		if m.Count == 0 {
			continue
		}
		snap.Stages = append(snap.Stages, StageSnapshot{
			Stage:       stage,
			Count:       m.Count,
			TotalTimeMs: m.TotalTime.Milliseconds(),
			AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
			MinTimeMs:   m.MinTime.Milliseconds(),
			MaxTimeMs:   m.MaxTime.Milliseconds(),
		})
	}
	slices.SortFunc(snap.Stages, func(a, b StageSnapshot) int {
		return cmp.Compare(a.Stage, b.Stage)
	})
	return snap
}
