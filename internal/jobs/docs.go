// Package jobs provides scheduled background tasks for the order desk.
//
// Jobs are cron based (github.com/robfig/cron/v3 with a seconds field).
//
// # Available Jobs
//
// ListenerPingJob pings the PostgreSQL LISTEN connection of the change feed,
// every 30 seconds by default. A failed ping is only logged: the driver
// reconnects by itself and the change feed resets its subscribers afterwards.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(feed, cfg.ListenerPingSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
package jobs
