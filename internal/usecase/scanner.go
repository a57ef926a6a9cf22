package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/domain/repository"
	"WhalePulse/internal/service/signal"
	applogger "WhalePulse/pkg/logger"
)

// Scanner fans a snapshot-and-score pass out over the tracked universe with
// a bounded worker pool. The shared rate limiter inside the providers caps
// the aggregate request rate no matter how many workers run.
type Scanner struct {
	aggregator *Aggregator
	generator  *signal.Generator
	symbols    []string
	workers    int
	logger     *applogger.Logger
	metrics    repository.Metrics
}

func NewScanner(aggregator *Aggregator, generator *signal.Generator, symbols []string, workers int, l *applogger.Logger, m repository.Metrics) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		aggregator: aggregator,
		generator:  generator,
		symbols:    symbols,
		workers:    workers,
		logger:     l,
		metrics:    m,
	}
}

// Scan snapshots up to limit symbols concurrently and returns their signals
// for the timeframe, highest score first. Per-symbol failures land in the
// errors list instead of aborting the scan.
func (s *Scanner) Scan(ctx context.Context, tf models.Timeframe, limit int) *models.ScanResponse {
	started := time.Now()

	universe := s.symbols
	if limit > 0 && limit < len(universe) {
		universe = universe[:limit]
	}

	var (
		mu      sync.Mutex
		scored  = make([]models.ScoredSnapshot, 0, len(universe))
		failed  = make([]string, 0)
		wg      sync.WaitGroup
		workers = make(chan struct{}, s.workers)
	)

	for _, symbol := range universe {
		wg.Add(1)
		workers <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-workers }()

			snap, err := s.aggregator.Snapshot(ctx, symbol)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("scan symbol failed", applogger.String("symbol", symbol), applogger.Error(err))
				}
				mu.Lock()
				failed = append(failed, symbol)
				mu.Unlock()
				return
			}

			sig := s.generator.Generate(snap, tf)
			mu.Lock()
			scored = append(scored, models.ScoredSnapshot{Snapshot: *snap, Signal: sig})
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Signal.Score > scored[j].Signal.Score
	})
	sort.Strings(failed)

	if s.metrics != nil {
		s.metrics.RecordLatency("scan", time.Since(started).Seconds())
	}
	if s.logger != nil {
		s.logger.Info("scan complete",
			applogger.String("timeframe", string(tf)),
			applogger.Int("scored", len(scored)),
			applogger.Int("failed", len(failed)),
			applogger.Duration("elapsed", time.Since(started)),
		)
	}

	return &models.ScanResponse{
		Timeframe:   tf,
		Phase:       s.generator.Regime(),
		Signals:     scored,
		Errors:      failed,
		GeneratedAt: time.Now(),
	}
}

// Coin snapshots one symbol and scores it on every timeframe.
func (s *Scanner) Coin(ctx context.Context, symbol string) (*models.CoinResponse, error) {
	snap, err := s.aggregator.Snapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	signals := make(map[models.Timeframe]models.Signal, 3)
	for _, tf := range models.Timeframes() {
		signals[tf] = s.generator.Generate(snap, tf)
	}

	return &models.CoinResponse{
		Symbol:     snap.Symbol,
		PriceData:  *snap,
		Signals:    signals,
		AnalyzedAt: time.Now(),
	}, nil
}
