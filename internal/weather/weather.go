// Weather data model and cache. Snapshots are replaced wholesale on
// successful fetch and never cleared on failure: stale data stays
// displayable with its captured timestamp.
package weather

// ForecastLen is the fixed number of forecast entries kept resident.
const ForecastLen = 8

// descriptions are display-bound, keep them within one marquee buffer
const maxDescription = 40

type Snapshot struct {
	Description string
	Temperature float64 // Celsius
	Humidity    float64 // percent
	Pressure    float64 // hPa
	CapturedAt  int64   // epoch seconds
}

type ForecastEntry struct {
	Snapshot
	PrecipitationProbability float64 // 0..1
	PrecipitationAmount      float64 // mm
	ForecastFor              int64   // epoch seconds
}

// Cache is written only by the refresh path and read by renderers.
// Single logical thread of control, no locking by design; see the
// concurrency notes in the loop.
type Cache struct {
	current      Snapshot
	forecast     []ForecastEntry
	haveCurrent  bool
	haveForecast bool
}

func (c *Cache) Current() (Snapshot, bool) { return c.current, c.haveCurrent }

func (c *Cache) SetCurrent(s Snapshot) {
	s.Description = boundDescription(s.Description)
	c.current = s
	c.haveCurrent = true
}

// ForecastAt indexes by page modulo the resident length, so an unbounded
// page counter from navigation always lands on a valid entry.
func (c *Cache) ForecastAt(page int) (ForecastEntry, bool) {
	if !c.haveForecast || len(c.forecast) == 0 {
		return ForecastEntry{}, false
	}
	n := len(c.forecast)
	i := page % n
	if i < 0 {
		i += n
	}
	return c.forecast[i], true
}

func (c *Cache) ForecastLen() int {
	if !c.haveForecast {
		return 0
	}
	return len(c.forecast)
}

func (c *Cache) SetForecast(entries []ForecastEntry) {
	if len(entries) > ForecastLen {
		entries = entries[:ForecastLen]
	}
	for i := range entries {
		entries[i].Description = boundDescription(entries[i].Description)
	}
	c.forecast = entries
	c.haveForecast = true
}

func boundDescription(s string) string {
	if len(s) > maxDescription {
		return s[:maxDescription]
	}
	return s
}
