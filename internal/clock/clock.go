// Time authority for the device. Synchronizes against an ordered list of
// remote sources, first success wins, then ticks forward on the local
// monotonic clock between refreshes.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/log2"
	"github.com/temoto/atomic_clock"
)

// ErrNoSource: every configured source failed. The one fatal condition
// in the controller; callers must escalate to restart.
var ErrNoSource = errors.New("no time source available")

type Source interface {
	Name() string
	Query() (epochSeconds int64, err error)
}

type Config struct {
	Servers      []string `hcl:"servers"`
	UTCOffsetSec int      `hcl:"utc_offset_sec"`
	UpdateSec    int      `hcl:"update_sec"`
	TimeoutSec   int      `hcl:"timeout_sec"`
}

type Manager struct { //nolint:maligned
	log     *log2.Log
	sources []Source

	utcOffset   int64
	updateEvery time.Duration

	epoch       int64 // atomic, authoritative epoch at syncedAt
	syncedAt    *atomic_clock.Clock
	lastAttempt *atomic_clock.Clock
	synced      uint32 // atomic bool
	active      int32  // index into sources, -1 before first sync
}

func NewManager(log *log2.Log, sources []Source, utcOffsetSec int, updateEvery time.Duration) *Manager {
	if updateEvery <= 0 {
		updateEvery = time.Minute
	}
	return &Manager{
		log:         log,
		sources:     sources,
		utcOffset:   int64(utcOffsetSec),
		updateEvery: updateEvery,
		syncedAt:    atomic_clock.New(),
		lastAttempt: atomic_clock.New(),
		active:      -1,
	}
}

// Synchronize tries every source in configured order and keeps the first
// good reply. Deliberately first-success, not consensus: latency is worth
// more here than cross-checking. Returns the winning source index.
func (self *Manager) Synchronize() (int, error) {
	self.lastAttempt.SetNow()
	for i, src := range self.sources {
		epoch, err := src.Query()
		if err != nil {
			self.log.Infof("clock source=%s err=%v", src.Name(), err)
			continue
		}
		self.store(epoch, int32(i))
		self.log.Infof("clock synchronized source=%s epoch=%d", src.Name(), epoch)
		return i, nil
	}
	return -1, errors.Trace(ErrNoSource)
}

// Update cheaply re-queries the active source, self-throttled to the
// configured interval. Never blocks beyond the source timeout, never
// escalates on its own: returns false only while time has never been
// set, which is the caller's cue to run the full Synchronize fallback.
func (self *Manager) Update() bool {
	if atomic_clock.Since(self.lastAttempt) < self.updateEvery {
		return self.IsSynced()
	}
	self.lastAttempt.SetNow()
	i := atomic.LoadInt32(&self.active)
	if i < 0 {
		return false
	}
	src := self.sources[i]
	epoch, err := src.Query()
	if err != nil {
		// stale but ticking, previous sync remains valid
		self.log.Debugf("clock update source=%s err=%v", src.Name(), err)
		return self.IsSynced()
	}
	self.store(epoch, i)
	return true
}

func (self *Manager) IsSynced() bool { return atomic.LoadUint32(&self.synced) == 1 }

// ActiveSource returns the index of the last successful source, -1 if none.
func (self *Manager) ActiveSource() int { return int(atomic.LoadInt32(&self.active)) }

func (self *Manager) SourceName() string {
	i := atomic.LoadInt32(&self.active)
	if i < 0 {
		return ""
	}
	return self.sources[i].Name()
}

// SyncAge is the time since the last successful source reply.
func (self *Manager) SyncAge() time.Duration {
	if !self.IsSynced() {
		return -1
	}
	return atomic_clock.Since(self.syncedAt)
}

// EpochSeconds advances on the local monotonic clock between syncs.
// Zero until the first successful synchronization.
func (self *Manager) EpochSeconds() int64 {
	if !self.IsSynced() {
		return 0
	}
	base := atomic.LoadInt64(&self.epoch)
	return base + int64(atomic_clock.Since(self.syncedAt)/time.Second)
}

func (self *Manager) local() time.Time {
	return time.Unix(self.EpochSeconds()+self.utcOffset, 0).UTC()
}

func (self *Manager) Hours() int   { return self.local().Hour() }
func (self *Manager) Minutes() int { return self.local().Minute() }
func (self *Manager) Seconds() int { return self.local().Second() }

// Weekday: 0=Sunday .. 6=Saturday
func (self *Manager) Weekday() int { return int(self.local().Weekday()) }

func (self *Manager) Date() (year int, month time.Month, day int) {
	return self.local().Date()
}

func (self *Manager) store(epoch int64, active int32) {
	atomic.StoreInt64(&self.epoch, epoch)
	self.syncedAt.SetNow()
	atomic.StoreInt32(&self.active, active)
	atomic.StoreUint32(&self.synced, 1)
}
