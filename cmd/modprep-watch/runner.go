package main

import (
	"log"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modstack/modprep/pkg/buildexec"
	"github.com/modstack/modprep/pkg/config"
	"github.com/modstack/modprep/pkg/introspect"
	"github.com/modstack/modprep/pkg/observability"
	"github.com/modstack/modprep/pkg/prepare"
)

// Runner re-runs preparation after file changes, debounced so a burst of
// writes triggers a single run. Runs the preparation itself performs on the
// watched tree re-trigger events; the cooldown window absorbs those.
type Runner struct {
	cfg      *config.Config
	target   string
	platform string
	setName  string
	metrics  *observability.Metrics
	status   *observability.StatusServer
	logger   *logrus.Logger
	delay    time.Duration

	pendingMutex sync.Mutex
	pending      *time.Time
	lastRun      time.Time

	runMutex sync.Mutex
	stopChan chan struct{}
	ticker   *time.Ticker
}

// NewRunner creates a runner with the given debounce delay. status may be
// nil.
func NewRunner(
	cfg *config.Config,
	target, platform, setName string,
	metrics *observability.Metrics,
	status *observability.StatusServer,
	logger *logrus.Logger,
	delay time.Duration,
) *Runner {
	return &Runner{
		cfg:      cfg,
		target:   target,
		platform: platform,
		setName:  setName,
		metrics:  metrics,
		status:   status,
		logger:   logger,
		delay:    delay,
		stopChan: make(chan struct{}),
	}
}

// Start begins processing queued runs
func (r *Runner) Start() {
	r.ticker = time.NewTicker(1 * time.Second)
	go r.processQueue()
}

// Stop stops the runner
func (r *Runner) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	close(r.stopChan)
}

// QueueRun schedules a preparation run after the debounce delay. Repeated
// calls within the delay collapse into one run.
func (r *Runner) QueueRun() {
	r.pendingMutex.Lock()
	defer r.pendingMutex.Unlock()

	// Skip changes made by a run that just finished
	if !r.lastRun.IsZero() && time.Since(r.lastRun) < r.delay {
		log.Printf("Skipping change within cooldown window")
		return
	}

	now := time.Now()
	r.pending = &now
	log.Printf("Queued preparation run with delay %v", r.delay)
}

// processQueue processes the run queue
func (r *Runner) processQueue() {
	for {
		select {
		case <-r.stopChan:
			return
		case <-r.ticker.C:
			r.checkQueue()
		}
	}
}

// checkQueue runs the pending preparation once its delay has elapsed
func (r *Runner) checkQueue() {
	r.pendingMutex.Lock()
	ready := r.pending != nil && time.Since(*r.pending) >= r.delay
	if ready {
		r.pending = nil
	}
	r.pendingMutex.Unlock()

	if ready {
		r.run()
	}
}

// run performs one preparation pass. Each pass builds a fresh preparer so
// stale registrations from an earlier pass cannot leak into the next.
func (r *Runner) run() {
	r.runMutex.Lock()
	defer r.runMutex.Unlock()

	log.Printf("Preparing %s against %s", r.target, r.platform)

	entry := logrus.NewEntry(r.logger)
	settings := buildexec.NewSettings(entry)
	scanner := introspect.NewScanner(r.cfg.IntrospectionVariables, entry)
	backend := buildexec.NewLocalBackend(settings, r.cfg.ReleaseLocal(), nil, entry)
	preparer := prepare.New(r.cfg, r.target, scanner, backend, settings, r.metrics, r.logger)

	report, err := preparer.Run(r.platform, r.setName)

	r.pendingMutex.Lock()
	r.lastRun = time.Now()
	r.pendingMutex.Unlock()

	if err != nil {
		log.Printf("Preparation failed: %v", err)
		return
	}

	log.Printf("Prepared %d modules, patched %d files", len(report.Modules), report.FilesPatched)
	if r.status != nil {
		r.status.SetReport(report)
	}
}
