// Development harness: runs the controller loop against the mock display
// and a keyboard-driven input source. Type button names, watch the screen
// frames print to stdout.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/hardware/input"
	"github.com/relogio-hw/relogio/hardware/lcd"
	"github.com/relogio-hw/relogio/helpers/cli"
	"github.com/relogio-hw/relogio/internal/clock"
	"github.com/relogio-hw/relogio/internal/state"
	"github.com/relogio-hw/relogio/internal/ui"
	"github.com/relogio-hw/relogio/log2"
)

var log = log2.NewStderr(log2.LDebug)

// simulated ladder levels, one per button
var buttonLevels = map[string]int32{
	"select": 950,
	"left":   700,
	"down":   400,
	"up":     200,
	"right":  50,
}

type queueSource struct {
	ch chan int32
}

func (self *queueSource) String() string { return "dev-queue" }
func (self *queueSource) ReadRaw() (int32, error) {
	select {
	case raw := <-self.ch:
		return raw, nil
	default:
		return input.NoPress, nil
	}
}

// localSource feeds the controller from the host clock so the harness
// works offline.
type localSource struct{}

func (localSource) Name() string          { return "local" }
func (localSource) Query() (int64, error) { return time.Now().Unix(), nil }

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "relogio.hcl", "")
	cmdline.Parse(os.Args[1:]) //nolint:errcheck
	log.SetFlags(log2.LInteractiveFlags)

	ctx, g := state.NewContext(log)
	cfg := state.MustReadConfig(log, state.NewOsFullReader(""), *flagConfig)
	// harness never touches hardware
	cfg.Hardware.HD44780.Enable = false
	cfg.Hardware.Input.Analog.Enable = false
	cfg.Hardware.Input.DevInputEvent.Enable = false
	if err := g.Init(ctx, cfg); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	src := &queueSource{ch: make(chan int32, 16)}
	g.Hardware.Input = src
	g.Clock = clock.NewManager(log, []clock.Source{localSource{}},
		cfg.Clock.UTCOffsetSec, time.Duration(cfg.Clock.UpdateSec)*time.Second)
	g.Restart = func() {
		log.Infof("harness: restart requested, exiting")
		os.Exit(1)
	}

	display := g.MustTextDisplay()
	updch := make(chan lcd.State, 16)
	display.SetUpdateChan(updch)
	go func() {
		border := "+" + strings.Repeat("-", int(display.Width())) + "+"
		for st := range updch {
			fmt.Printf("%s\n|%s|\n|%s|\n%s\n", border,
				lcd.PadSpace(st.L1, display.Width()),
				lcd.PadSpace(st.L2, display.Width()), border)
		}
	}()

	uiloop := new(ui.UI)
	if err := uiloop.Init(ctx); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	go uiloop.Loop(ctx)

	suggests := []prompt.Suggest{
		{Text: "left", Description: "previous screen"},
		{Text: "right", Description: "next screen"},
		{Text: "up", Description: "page up"},
		{Text: "down", Description: "page down"},
		{Text: "select", Description: "select button"},
		{Text: "raw", Description: "raw NN inject ladder level"},
		{Text: "quit", Description: "stop and exit"},
	}
	complete := func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
	exec := func(line string) {
		switch {
		case line == "quit":
			g.Alive.Stop()
			g.Alive.Wait()
			os.Exit(0)
		case len(line) > 4 && line[:4] == "raw ":
			n, err := strconv.Atoi(line[4:])
			if err != nil {
				log.Errorf("raw: %v", err)
				return
			}
			src.ch <- int32(n)
		default:
			raw, ok := buttonLevels[line]
			if !ok {
				log.Errorf("unknown command '%s'", line)
				return
			}
			src.ch <- raw
		}
	}
	cli.MainLoop("relogio-dev", exec, complete)
}
