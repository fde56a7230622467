package logging

import (
	"context"
	"errors"
	"sync"
	"time"

	"sentiment-webapi/internal/repositories"

	"go.uber.org/zap"
)

// LogPruner periodically deletes SQLite diagnostic logs older than the
// retention window.
type LogPruner struct {
	logRepo   repositories.LogRepository
	logger    *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time

	mu        sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
	isRunning bool
}

// NewLogPruner creates a pruner. It does nothing until Start is called.
func NewLogPruner(logRepo repositories.LogRepository, logger *zap.Logger, interval, retention time.Duration) *LogPruner {
	return &LogPruner{
		logRepo:   logRepo,
		logger:    logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start begins the pruning loop in a separate goroutine
func (p *LogPruner) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		p.logger.Warn("Log pruner already running")
		return
	}
	if p.interval <= 0 || p.retention <= 0 {
		p.logger.Info("Log pruner disabled", zap.Duration("interval", p.interval), zap.Duration("retention", p.retention))
		return
	}
	p.stopChan = make(chan struct{})
	p.done = make(chan struct{})
	p.isRunning = true
	go p.run(p.stopChan, p.done)
	p.logger.Info("SQLite log pruner started", zap.Duration("interval", p.interval), zap.Duration("retention", p.retention))
}

// Stop signals the loop to terminate and waits for it to exit.
func (p *LogPruner) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	close(p.stopChan)
	done := p.done
	p.mu.Unlock()

	<-done
	p.logger.Info("Log pruner stopped.")
}

func (p *LogPruner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			p.PruneOnce(ctx)
			cancel()
		case <-stop:
			return
		}
	}
}

// PruneOnce deletes every row older than now minus the retention window and
// returns the number of rows removed.
func (p *LogPruner) PruneOnce(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.retention)
	deleted, err := p.logRepo.DeleteSQLiteLogsBefore(ctx, cutoff)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSQLiteUnavailable):
			p.logger.Debug("Skipping log prune, SQLite unavailable")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			p.logger.Info("Context cancelled/timed out during log prune.", zap.Error(err))
		default:
			p.logger.Error("Log prune failed", zap.Error(err))
		}
		return 0
	}
	if deleted > 0 {
		p.logger.Info("Pruned SQLite diagnostic logs", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted
}
