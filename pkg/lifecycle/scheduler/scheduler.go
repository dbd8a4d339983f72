package scheduler

import (
	"context"
	"time"

	"github.com/certops/certops/pkg/lifecycle/rotation"
	"github.com/certops/certops/pkg/lifecycle/sweep"
	"github.com/sirupsen/logrus"
)

type Config struct {
	RotationInterval int `yaml:"rotation_interval"` // Seconds between rotation runs. 0 disables rotation.
	SweepInterval    int `yaml:"sweep_interval"`    // Seconds between ttl sweeps. 0 disables sweeping.
}

// Scheduler drives the periodic rotation and ttl sweep runs. Runs are
// strictly sequential; a slow rotation delays the next sweep.
type Scheduler struct {
	rotator          rotation.Rotator
	sweeper          sweep.Sweeper
	rotationInterval time.Duration
	sweepInterval    time.Duration
}

func NewScheduler(cfg Config, rotator rotation.Rotator, sweeper sweep.Sweeper) *Scheduler {
	return &Scheduler{
		rotator:          rotator,
		sweeper:          sweeper,
		rotationInterval: time.Duration(cfg.RotationInterval) * time.Second,
		sweepInterval:    time.Duration(cfg.SweepInterval) * time.Second,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	logrus.Info("certificate lifecycle scheduler is now running")

	rotationCh := scheduleChan(s.rotationInterval)
	sweepCh := scheduleChan(s.sweepInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-rotationCh:
			if _, err := s.rotator.RotateAll(ctx, time.Now().Unix()); err != nil {
				logrus.Errorf("scheduled rotation run failed: %v", err)
			}
			rotationCh = scheduleChan(s.rotationInterval)
		case <-sweepCh:
			if _, err := s.sweeper.CheckAll(ctx, time.Now().Unix()); err != nil {
				logrus.Errorf("scheduled ttl sweep failed: %v", err)
			}
			sweepCh = scheduleChan(s.sweepInterval)
		}
	}
}

func scheduleChan(interval time.Duration) <-chan time.Time {
	if interval <= 0 {
		return nil
	}
	return time.After(interval)
}
