package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultListenerPingSchedule runs the ping every 30 seconds.
const DefaultListenerPingSchedule = "*/30 * * * * *"

// Pinger is satisfied by the change feed listener.
type Pinger interface {
	Ping() error
}

// ListenerPingJob pings the LISTEN connection so a silently dropped connection is
// noticed and re-established by the driver instead of starving subscribers.
type ListenerPingJob struct {
	pinger   Pinger
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewListenerPingJob uses DefaultListenerPingSchedule when schedule is empty.
func NewListenerPingJob(pinger Pinger, schedule string, logger *slog.Logger) *ListenerPingJob {
	if schedule == "" {
		schedule = DefaultListenerPingSchedule
	}
	return &ListenerPingJob{
		pinger:   pinger,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "listener_ping_job"),
	}
}

// Run performs one ping. Failures are logged, the listener reconnects on its own.
func (j *ListenerPingJob) Run() {
	if err := j.pinger.Ping(); err != nil {
		j.logger.WarnContext(context.Background(), "Change feed ping failed", "error", err)
		return
	}
	j.logger.DebugContext(context.Background(), "Change feed ping ok")
}

// Start schedules the ping.
func (j *ListenerPingJob) Start() error {
	if _, err := j.cron.AddJob(j.schedule, j); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Listener ping job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running ping to finish.
func (j *ListenerPingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Listener ping job stopped")
}
