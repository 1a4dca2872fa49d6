package ui

import "time"

// Screen is one fixed display layout. The set forms a closed ring for
// Left/Right navigation; ScreenClock is home and the idle fallback.
type Screen int8

const (
	ScreenTimeSource Screen = -2
	ScreenNetwork    Screen = -1
	ScreenClock      Screen = 0
	ScreenDate       Screen = 1
	ScreenWeather    Screen = 2
	ScreenForecast   Screen = 3

	minScreen = ScreenTimeSource
	maxScreen = ScreenForecast
)

const screenCount = int(maxScreen-minScreen) + 1

func (s Screen) String() string {
	switch s {
	case ScreenTimeSource:
		return "time-source"
	case ScreenNetwork:
		return "network"
	case ScreenClock:
		return "clock"
	case ScreenDate:
		return "date"
	case ScreenWeather:
		return "weather"
	case ScreenForecast:
		return "forecast"
	}
	return "invalid"
}

// index maps the ring position to a dense array slot.
func (s Screen) index() int { return int(s - minScreen) }

// redrawEvery is each screen's self-throttled redraw cadence. The clock
// blinks its separator once a second, scrolling screens animate at 500ms,
// info screens rarely change. Without this a tight loop would redraw the
// LCD hundreds of times a second.
func (s Screen) redrawEvery() time.Duration {
	switch s {
	case ScreenClock:
		return time.Second
	case ScreenWeather, ScreenForecast:
		return 500 * time.Millisecond
	case ScreenDate:
		return time.Second
	}
	// time-source, network
	return 5 * time.Second
}
