package ui

import (
	"time"

	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/temoto/atomic_clock"
)

// Navigation owns the current screen and the page sub-index. Mutated
// only by decoded button commands and the idle timeout.
type Navigation struct {
	screen          Screen
	page            int
	lastInteraction *atomic_clock.Clock
	idleTimeout     time.Duration
}

func NewNavigation(idleTimeout time.Duration) *Navigation {
	return &Navigation{
		screen:          ScreenClock,
		lastInteraction: atomic_clock.Now(),
		idleTimeout:     idleTimeout,
	}
}

func (self *Navigation) Screen() Screen { return self.screen }
func (self *Navigation) Page() int      { return self.page }

// Apply runs one decoded command. Returns true when screen or page
// changed, which obliges the caller to clear the display before the next
// render. Select is deliberately a no-op: on the original hardware its
// ladder level was too close to the open-circuit reading to trust.
func (self *Navigation) Apply(b input.Button) bool {
	switch b {
	case input.ButtonLeft:
		self.screen--
		if self.screen < minScreen {
			self.screen = maxScreen
		}
	case input.ButtonRight:
		self.screen++
		if self.screen > maxScreen {
			self.screen = minScreen
		}
	case input.ButtonUp:
		// unbounded, consumers reduce modulo their page count
		self.page++
	case input.ButtonDown:
		self.page--
	default:
		return false
	}
	self.lastInteraction.SetNow()
	return true
}

// CheckIdle silently forces the home screen after the inactivity window.
// Returns true on the transition tick only.
func (self *Navigation) CheckIdle() bool {
	if self.screen == ScreenClock {
		return false
	}
	if atomic_clock.Since(self.lastInteraction) <= self.idleTimeout {
		return false
	}
	self.screen = ScreenClock
	self.page = 0
	self.lastInteraction.SetNow()
	return true
}
