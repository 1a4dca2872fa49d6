package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/relogio-hw/relogio/hardware/lcd"
	"github.com/relogio-hw/relogio/helpers"
	"github.com/relogio-hw/relogio/internal/clock"
	"github.com/relogio-hw/relogio/internal/tele"
	"github.com/relogio-hw/relogio/internal/weather"
	"github.com/relogio-hw/relogio/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Hardware struct {
		HD44780 struct { //nolint:maligned
			Enable        bool       `hcl:"enable"`
			Codepage      string     `hcl:"codepage"`
			PinChip       string     `hcl:"pin_chip"`
			Pinmap        lcd.PinMap `hcl:"pinmap"`
			Page1         bool       `hcl:"page1"`
			Width         int        `hcl:"width"`
			ControlBlink  bool       `hcl:"blink"`
			ControlCursor bool       `hcl:"cursor"`
		} `hcl:"hd44780"`
		Input struct {
			Analog        input.AnalogConfig `hcl:"analog"`
			DevInputEvent struct {
				Enable bool   `hcl:"enable"`
				Device string `hcl:"device"`
			} `hcl:"dev_input_event"`
			SampleMs int `hcl:"sample_ms"`
		} `hcl:"input"`
	} `hcl:"hardware"`

	Clock   clock.Config   `hcl:"clock"`
	Weather weather.Config `hcl:"weather"`
	Tele    tele.Config    `hcl:"tele"`

	UI struct {
		IdleHomeSec     int    `hcl:"idle_home_sec"`
		TickMs          int    `hcl:"tick_ms"`
		MsgBoot         string `hcl:"msg_boot"`
		MsgNoTime       string `hcl:"msg_no_time"`
		RestartDelaySec int    `hcl:"restart_delay_sec"`
	} `hcl:"ui"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// Normalize fills defaults matching the original device behavior.
func (c *Config) Normalize() {
	if c.Hardware.HD44780.Width == 0 {
		c.Hardware.HD44780.Width = lcd.Columns
	}
	if c.Hardware.Input.SampleMs == 0 {
		c.Hardware.Input.SampleMs = 150
	}
	if len(c.Clock.Servers) == 0 {
		c.Clock.Servers = []string{"pool.ntp.org"}
	}
	if c.Clock.UpdateSec == 0 {
		c.Clock.UpdateSec = 60
	}
	if c.Clock.TimeoutSec == 0 {
		c.Clock.TimeoutSec = 3
	}
	if c.Weather.RefreshSec == 0 {
		c.Weather.RefreshSec = 900
	}
	if c.Weather.ForecastRefreshSec == 0 {
		// forecast changes slower, refresh at a multiple of current cadence
		c.Weather.ForecastRefreshSec = 4 * c.Weather.RefreshSec
	}
	if c.UI.IdleHomeSec == 0 {
		c.UI.IdleHomeSec = 60
	}
	if c.UI.TickMs == 0 {
		c.UI.TickMs = 50
	}
	if c.UI.MsgBoot == "" {
		c.UI.MsgBoot = "starting"
	}
	if c.UI.MsgNoTime == "" {
		c.UI.MsgNoTime = "no time source"
	}
	if c.UI.RestartDelaySec == 0 {
		c.UI.RestartDelaySec = 10
	}
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return c, err
	}
	c.Normalize()
	return c, nil
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
