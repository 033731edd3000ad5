package refresh

import (
	"sync/atomic"
	"time"

	"github.com/joshuadavidthomas/stravabar/internal/fetch"
	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// Phase is where the controller is in its refresh cycle.
type Phase int

const (
	Idle Phase = iota
	Fetching
	Applying
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Applying:
		return "applying"
	}
	return "unknown"
}

// Host is the loop the controller runs on. Every method is called from
// the loop goroutine, and timer callbacks must run there too.
// RegisterTimer returns an id that CancelTimer accepts; cancelling a
// timer that already fired is a no-op.
type Host interface {
	RegisterTimer(delay time.Duration, name string, fn func()) uint64
	CancelTimer(id uint64)
	RequestRedraw()
	LogWarning(msg string, keyvals ...any)
}

// Timer names registered with the host.
const (
	TimerStartCycle = "start-cycle"
	TimerPoll       = "poll"
)

// DefaultPollInterval is how often a pending fetch is checked.
const DefaultPollInterval = time.Second

// Config holds the controller's timings.
type Config struct {
	StartupDelay    time.Duration
	RefreshInterval time.Duration
	PollInterval    time.Duration
}

// widgetState is everything the controller mutates, in one place.
type widgetState struct {
	phase    Phase
	pending  *fetch.Slot
	// nextCycle is the pending start-cycle timer, 0 when none.
	nextCycle uint64
	current  atomic.Pointer[models.ActivitySnapshot]
	started  int
	applied  int
	failures int
}

// Controller drives the Idle → Fetching → Applying → Idle cycle. It
// never blocks: fetches run through the Spawner and results are picked
// up by polling on short host timers.
type Controller struct {
	host  Host
	spawn fetch.Spawner
	cfg   Config
	state widgetState
}

// New returns a controller in the Idle phase. Call Start to schedule
// the first cycle.
func New(host Host, spawn fetch.Spawner, cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Controller{host: host, spawn: spawn, cfg: cfg}
}

// Start schedules the first cycle after the startup delay.
func (c *Controller) Start() {
	c.scheduleCycle(c.cfg.StartupDelay)
}

// scheduleCycle replaces any pending start-cycle timer, so only one
// periodic chain ever exists.
func (c *Controller) scheduleCycle(delay time.Duration) {
	if c.state.nextCycle != 0 {
		c.host.CancelTimer(c.state.nextCycle)
	}
	c.state.nextCycle = c.host.RegisterTimer(delay, TimerStartCycle, c.runScheduledCycle)
}

func (c *Controller) runScheduledCycle() {
	c.state.nextCycle = 0
	c.StartCycle()
}

// Seed installs a snapshot to show before the first fetch completes,
// typically one loaded from the cache.
func (c *Controller) Seed(snap *models.ActivitySnapshot) {
	if snap == nil {
		return
	}
	c.state.current.Store(snap)
}

// Snapshot returns the current data, or nil if nothing has been fetched.
func (c *Controller) Snapshot() *models.ActivitySnapshot {
	return c.state.current.Load()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.state.phase }

// Stats reports how many cycles were started, applied and failed.
func (c *Controller) Stats() (started, applied, failed int) {
	return c.state.started, c.state.applied, c.state.failures
}

// StartCycle moves Idle → Fetching: it hands a fresh slot to a new
// worker and begins polling. It does nothing while a fetch is already
// in flight. A pending scheduled cycle is dropped; the next one is
// counted from the end of this cycle.
func (c *Controller) StartCycle() {
	if c.state.phase != Idle {
		return
	}
	if c.state.nextCycle != 0 {
		c.host.CancelTimer(c.state.nextCycle)
		c.state.nextCycle = 0
	}
	slot := fetch.NewSlot()
	c.state.phase = Fetching
	c.state.pending = slot
	c.state.started++
	c.spawn(slot)
	c.host.RegisterTimer(c.cfg.PollInterval, TimerPoll, c.poll)
}

func (c *Controller) poll() {
	if c.state.phase != Fetching || c.state.pending == nil {
		return
	}

	res, ok := c.state.pending.TryTake()
	if !ok {
		c.host.RegisterTimer(c.cfg.PollInterval, TimerPoll, c.poll)
		return
	}
	c.state.pending = nil

	if res.Err != nil {
		c.state.failures++
		c.host.LogWarning("refresh failed, keeping previous data", "err", res.Err)
		c.state.phase = Idle
		c.scheduleCycle(c.cfg.RefreshInterval)
		return
	}

	c.apply(res.Snapshot)
}

func (c *Controller) apply(snap *models.ActivitySnapshot) {
	c.state.phase = Applying
	c.state.current.Store(snap)
	c.state.applied++
	c.host.RequestRedraw()
	c.scheduleCycle(c.cfg.RefreshInterval)
	c.state.phase = Idle
}
