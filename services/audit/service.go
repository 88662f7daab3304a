package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/upb/model-router/models"
	"github.com/upb/model-router/repositories"
	"go.uber.org/zap"
)

// Service records routing decisions asynchronously. Recording never
// blocks the routing hot path: entries are buffered and written by
// background workers, and a full buffer drops the entry with a warning
// instead of stalling the caller.
type Service struct {
	repo        repositories.DecisionLogRepository
	logger      *zap.Logger
	entryChan   chan *models.DecisionLog
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	started     bool
	mu          sync.Mutex
}

// Config holds configuration for the decision log service
type Config struct {
	BufferSize  int // size of the entry buffer channel
	WorkerCount int // number of concurrent writers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 2,
	}
}

// NewService creates a new decision log service
func NewService(repo repositories.DecisionLogRepository, logger *zap.Logger, config Config) *Service {
	return &Service{
		repo:        repo,
		logger:      logger,
		entryChan:   make(chan *models.DecisionLog, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
	}
}

// Start starts the background writers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("decision log service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started decision log service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))
	return nil
}

// Stop drains pending entries and stops the writers
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("decision log service not started")
	}
	s.started = false
	s.mu.Unlock()

	s.logger.Info("stopping decision log service",
		zap.Int("pending_entries", len(s.entryChan)))

	close(s.entryChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("decision log service stopped")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("decision log service stop timeout after %v", timeout)
	}
}

// Record queues a routing decision for persistence. Non-blocking: a
// full buffer drops the entry.
func (s *Service) Record(req models.RoutingRequest, decision models.RoutingDecision) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}

	entry := models.NewDecisionLog(req, decision)

	select {
	case s.entryChan <- entry:
	default:
		s.logger.Warn("decision log buffer full, dropping entry",
			zap.String("tenant_id", entry.TenantID),
			zap.String("reason_code", string(entry.ReasonCode)))
	}
}

// worker writes entries from the channel
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("decision log worker started", zap.Int("worker_id", id))

	for entry := range s.entryChan {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Insert(ctx, entry); err != nil {
			s.logger.Error("failed to insert decision log",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("tenant_id", entry.TenantID))
		}
		cancel()
	}

	s.logger.Debug("decision log worker stopped", zap.Int("worker_id", id))
}

// Stats represents decision log service statistics
type Stats struct {
	BufferSize     int
	PendingEntries int
	WorkerCount    int
	Started        bool
}

// GetStats returns statistics about the decision log service
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		BufferSize:     s.bufferSize,
		PendingEntries: len(s.entryChan),
		WorkerCount:    s.workerCount,
		Started:        s.started,
	}
}
