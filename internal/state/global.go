package state

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/relogio-hw/relogio/hardware/lcd"
	"github.com/relogio-hw/relogio/internal/clock"
	"github.com/relogio-hw/relogio/internal/tele"
	"github.com/relogio-hw/relogio/internal/weather"
	"github.com/relogio-hw/relogio/log2"
	"github.com/temoto/alive/v2"
)

// Global is the explicit context object shared by the controller parts.
// Each field is written by exactly one component; see package docs of the
// owners. Replaces what the firmware kept in module-scope variables.
type Global struct {
	Alive  *alive.Alive
	Config *Config
	Log    *log2.Log

	Clock   *clock.Manager
	Weather *weather.Cache
	Tele    *tele.Tele

	Hardware struct {
		Display *lcd.TextDisplay
		Input   input.Source
	}

	// Restart must not return. Production wires a supervisor-assisted
	// process exit, tests substitute a recorder.
	Restart func()
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func NewContext(log *log2.Log) (context.Context, *Global) {
	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
		Restart: func() {
			os.Exit(1) // supervisor restarts the service
		},
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, ContextKey, g) //nolint:staticcheck
	return ctx, g
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	// tele is the remote error reporting mechanism, init before anything else
	t, err := tele.New(g.Log, cfg.Tele)
	if err != nil {
		return errors.Annotate(err, "tele init")
	}
	g.Tele = t
	if t != nil {
		g.Log.SetErrorFunc(t.Error)
	}

	g.Clock = clock.NewManager(
		g.Log,
		clock.NTPSources(cfg.Clock),
		cfg.Clock.UTCOffsetSec,
		time.Duration(cfg.Clock.UpdateSec)*time.Second,
	)
	g.Weather = new(weather.Cache)

	if err := g.initDisplay(); err != nil {
		return errors.Annotate(err, "display init")
	}
	if err := g.initInput(); err != nil {
		return errors.Annotate(err, "input init")
	}
	return nil
}

func (g *Global) MustTextDisplay() *lcd.TextDisplay {
	if g.Hardware.Display == nil {
		g.Log.Fatal("code error display is not initialized")
	}
	return g.Hardware.Display
}

func (g *Global) initDisplay() error {
	conf := &g.Config.Hardware.HD44780
	dconf := &lcd.TextDisplayConfig{
		Codepage: conf.Codepage,
		Width:    uint32(conf.Width),
	}
	display, err := lcd.NewTextDisplay(dconf)
	if err != nil {
		return errors.Trace(err)
	}
	if conf.Enable {
		dev := new(lcd.LCD)
		if err = dev.Init(conf.PinChip, conf.Pinmap, conf.Page1); err != nil {
			return errors.Annotatef(err, "hd44780 chip=%s", conf.PinChip)
		}
		ctrl := lcd.ControlOn
		if conf.ControlBlink {
			ctrl |= lcd.ControlBlink
		}
		if conf.ControlCursor {
			ctrl |= lcd.ControlUnderscore
		}
		dev.SetControl(ctrl)
		display.SetDevice(dev)
	} else {
		display.SetDevice(new(lcd.MockDevicer))
	}
	display.UploadGlyphs()
	g.Hardware.Display = display
	return nil
}

func (g *Global) initInput() error {
	conf := &g.Config.Hardware.Input
	sources := make(input.Multi, 0, 2)
	if conf.Analog.Enable {
		src, err := input.NewAnalogSource(conf.Analog)
		if err != nil {
			return errors.Trace(err)
		}
		sources = append(sources, src)
	}
	if conf.DevInputEvent.Enable {
		src, err := input.NewDevInputEventSource(conf.DevInputEvent.Device)
		if err != nil {
			return errors.Annotatef(err, "dev-input-event device=%s", conf.DevInputEvent.Device)
		}
		sources = append(sources, src)
	}
	g.Hardware.Input = sources
	return nil
}
