package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// ErrBatchRunning is returned when a batch is requested while another one runs.
var ErrBatchRunning = errors.New("a batch update is already running")

// BatchRunner is the part of the updater the scheduler drives.
type BatchRunner interface {
	UpdateAll(ctx context.Context, opts updater.BatchOptions) updater.Counts
}

// Manager runs the scheduled batch and guards against overlapping runs.
type Manager struct {
	runner   BatchRunner
	bus      event.Bus
	schedule string

	cron *cron.Cron
	// 同一时间只允许一个批量任务
	running sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager builds a manager. An empty schedule disables the cron job;
// RunBatch still works.
func NewManager(runner BatchRunner, bus event.Bus, schedule string) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		runner:   runner,
		bus:      bus,
		schedule: schedule,
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the cron job and starts the cron loop.
func (m *Manager) Start() error {
	if m.schedule != "" {
		_, err := m.cron.AddFunc(m.schedule, m.scheduledRun)
		if err != nil {
			return fmt.Errorf("invalid updater schedule %q: %w", m.schedule, err)
		}
	}
	m.cron.Start()
	logging.Info().Str("schedule", m.schedule).Msg("Scheduler: started")
	return nil
}

// Stop cancels a running batch and waits for the cron loop to finish.
func (m *Manager) Stop() {
	m.cancel()
	<-m.cron.Stop().Done()
	// wait for an in-flight RunBatch
	m.running.Lock()
	defer m.running.Unlock()
	logging.Info().Msg("Scheduler: stopped")
}

func (m *Manager) scheduledRun() {
	counts, err := m.RunBatch(m.ctx, updater.BatchOptions{})
	if errors.Is(err, ErrBatchRunning) {
		logging.Info().Msg("Scheduler: previous batch still running, skipping")
		return
	}
	logging.Info().Interface("counts", counts).Msg("Scheduler: scheduled batch done")
}

// RunBatch runs one batch on the caller's goroutine, publishing progress on
// the bus. It fails fast with ErrBatchRunning if another batch holds the lock.
func (m *Manager) RunBatch(ctx context.Context, opts updater.BatchOptions) (updater.Counts, error) {
	if !m.running.TryLock() {
		return updater.Counts{}, ErrBatchRunning
	}
	defer m.running.Unlock()

	progress := opts.Progress
	opts.Progress = func(p updater.BatchProgress) {
		if m.bus != nil {
			m.bus.Publish(event.EventBatchProgress, p)
		}
		if progress != nil {
			progress(p)
		}
	}

	counts := m.runner.UpdateAll(ctx, opts)
	if m.bus != nil {
		m.bus.Publish(event.EventBatchComplete, counts)
	}
	return counts, nil
}
