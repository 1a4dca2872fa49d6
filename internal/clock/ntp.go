package clock

import (
	"time"

	"github.com/beevik/ntp"
	"github.com/juju/errors"
)

// NTPSource queries one NTP server with a bounded timeout.
type NTPSource struct {
	host    string
	timeout time.Duration
}

var _ Source = new(NTPSource)

func NewNTPSource(host string, timeout time.Duration) *NTPSource {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &NTPSource{host: host, timeout: timeout}
}

// NTPSources builds the ordered fallback list from config.
func NTPSources(conf Config) []Source {
	timeout := time.Duration(conf.TimeoutSec) * time.Second
	srcs := make([]Source, 0, len(conf.Servers))
	for _, host := range conf.Servers {
		srcs = append(srcs, NewNTPSource(host, timeout))
	}
	return srcs
}

func (self *NTPSource) Name() string { return self.host }

func (self *NTPSource) Query() (int64, error) {
	resp, err := ntp.QueryWithOptions(self.host, ntp.QueryOptions{Timeout: self.timeout})
	if err != nil {
		return 0, errors.Annotatef(err, "ntp query host=%s", self.host)
	}
	if err = resp.Validate(); err != nil {
		return 0, errors.Annotatef(err, "ntp reply host=%s", self.host)
	}
	return time.Now().Add(resp.ClockOffset).Unix(), nil
}
