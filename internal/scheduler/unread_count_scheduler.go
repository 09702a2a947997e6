package scheduler

import (
	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// UnreadCounter counts unread contact messages.
type UnreadCounter interface {
	UnreadCount() (int64, error)
}

// UnreadPusher delivers the count to connected admins.
type UnreadPusher interface {
	PushUnreadCount(count int64)
}

// UnreadCountScheduler periodically pushes the unread contact message count
// to the dashboard so the badge stays current without polling.
type UnreadCountScheduler struct {
	cron    *cron.Cron
	counter UnreadCounter
	pusher  UnreadPusher
	metrics *metrics.Metrics
}

func NewUnreadCountScheduler(counter UnreadCounter, pusher UnreadPusher, m *metrics.Metrics) *UnreadCountScheduler {
	return &UnreadCountScheduler{
		cron:    cron.New(),
		counter: counter,
		pusher:  pusher,
		metrics: m,
	}
}

// Start schedules the push with a cron spec such as "@every 30s".
func (s *UnreadCountScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for unread count", err, map[string]interface{}{
			"spec": spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Unread count scheduler started", map[string]interface{}{
		"spec": spec,
	})
	return nil
}

// RunOnce counts and pushes a single time.
func (s *UnreadCountScheduler) RunOnce() {
	count, err := s.counter.UnreadCount()
	if err != nil {
		logger.Error("Failed to count unread messages", err)
		return
	}
	s.metrics.SetUnreadMessages(count)
	s.pusher.PushUnreadCount(count)
	logger.Debug("Unread count pushed", map[string]interface{}{
		"count": count,
	})
}

// Stop waits for a running push to finish.
func (s *UnreadCountScheduler) Stop() {
	logger.Info("Stopping unread count scheduler")
	<-s.cron.Stop().Done()
	logger.Info("Unread count scheduler stopped")
}
