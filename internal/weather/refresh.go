package weather

import (
	"github.com/relogio-hw/relogio/log2"
)

// Timer gates one data class behind a minimum interval. A failed attempt
// does not touch lastSuccess but still paces the next retry one full
// interval out, bounded retry pressure with no tight loop.
type Timer struct {
	MinInterval int64 // seconds

	lastSuccess int64
	lastAttempt int64
	attempted   bool
	succeeded   bool
}

func (t *Timer) Due(now int64) bool {
	if t.attempted && now-t.lastAttempt < t.MinInterval {
		return false
	}
	if t.succeeded && now-t.lastSuccess < t.MinInterval {
		return false
	}
	return true
}

// MaybeRefresh is a no-op unless the interval elapsed. Returns whether
// fetch was invoked.
func (t *Timer) MaybeRefresh(now int64, fetch func() error) bool {
	if !t.Due(now) {
		return false
	}
	t.attempted = true
	t.lastAttempt = now
	if err := fetch(); err != nil {
		return true
	}
	t.succeeded = true
	t.lastSuccess = now
	return true
}

// LastSuccess returns epoch seconds of the last successful fetch, 0 if none.
func (t *Timer) LastSuccess() int64 { return t.lastSuccess }

// Refresher drives both data classes off independent timers.
// Forecast cadence is a multiple of the current-weather cadence; a
// failure in one class never affects the other.
type Refresher struct {
	log    *log2.Log
	client Client
	cache  *Cache

	current  Timer
	forecast Timer
}

func NewRefresher(log *log2.Log, client Client, cache *Cache, currentSec, forecastSec int64) *Refresher {
	return &Refresher{
		log:      log,
		client:   client,
		cache:    cache,
		current:  Timer{MinInterval: currentSec},
		forecast: Timer{MinInterval: forecastSec},
	}
}

// Poll is called once per loop iteration with the authoritative epoch.
func (self *Refresher) Poll(now int64) {
	if self == nil {
		return
	}
	self.current.MaybeRefresh(now, func() error {
		snap, err := self.client.FetchCurrent()
		if err != nil {
			self.log.Errorf("weather current err=%v", err)
			return err
		}
		snap.CapturedAt = now
		self.cache.SetCurrent(snap)
		self.log.Debugf("weather current=%+v", snap)
		return nil
	})
	self.forecast.MaybeRefresh(now, func() error {
		entries, err := self.client.FetchForecast(ForecastLen)
		if err != nil {
			self.log.Errorf("weather forecast err=%v", err)
			return err
		}
		for i := range entries {
			entries[i].CapturedAt = now
		}
		self.cache.SetForecast(entries)
		self.log.Debugf("weather forecast n=%d", len(entries))
		return nil
	})
}
