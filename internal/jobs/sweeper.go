// Package jobs runs the recurring background work of the studio API.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/metrics"
	"github.com/magnetic-studio/studio-api/internal/store"
)

// InvitationExpirer is the subset of store.InvitationStore the sweep needs.
type InvitationExpirer interface {
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

var _ InvitationExpirer = (*store.InvitationStore)(nil)

// InvitationSweeper periodically invalidates invitations past their expiry.
type InvitationSweeper struct {
	invitations InvitationExpirer
	metrics     *metrics.Metrics
	logger      *zap.Logger
	cron        *cron.Cron
	now         func() time.Time

	mu      sync.Mutex
	running bool
}

func NewInvitationSweeper(invitations InvitationExpirer, m *metrics.Metrics, logger *zap.Logger) *InvitationSweeper {
	return &InvitationSweeper{
		invitations: invitations,
		metrics:     m,
		logger:      logger,
		cron:        cron.New(),
		now:         time.Now,
	}
}

// Start schedules the sweep with a standard five-field cron expression.
func (s *InvitationSweeper) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("invitation sweeper already running")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("Invitation sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("add invitation sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Invitation sweeper started", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running sweep to finish or ctx to be done.
func (s *InvitationSweeper) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("Invitation sweeper stopped")
}

// RunOnce invalidates every expired invitation and returns how many changed.
func (s *InvitationSweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.invitations.ExpireBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.metrics.InvitationsExpired.Add(float64(n))
		s.logger.Info("Expired invitations", zap.Int64("count", n))
	}
	return n, nil
}
