package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronTrigger submits named tasks to the Scheduler on cron schedules.
// Specs use the standard five-field syntax or descriptors like "@every 5m".
type CronTrigger struct {
	cron      *cron.Cron
	scheduler *Scheduler
	logger    *zap.Logger

	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a trigger feeding the given scheduler
func NewCronTrigger(scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	cl := cronLogger{logger: logger.Named("cron")}
	return &CronTrigger{
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		scheduler: scheduler,
		logger:    logger,
	}
}

// Register schedules task under name
func (c *CronTrigger) Register(name, spec string, task Task) error {
	_, err := c.cron.AddFunc(spec, func() {
		err := c.scheduler.Submit(name, task)
		switch {
		case err == nil:
		case errors.Is(err, ErrJobAlreadyQueued):
			c.logger.Debug("Skipping tick, previous run still queued", zap.String("job", name))
		default:
			c.logger.Warn("Failed to submit scheduled job", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	c.logger.Info("Scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start begins firing schedules
func (c *CronTrigger) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true
	c.cron.Start()
	return nil
}

// Stop halts the schedules and waits for in-flight submissions or for ctx to end
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	select {
	case <-c.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
