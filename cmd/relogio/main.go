package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/internal/state"
	"github.com/relogio-hw/relogio/internal/ui"
	"github.com/relogio-hw/relogio/log2"
)

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "relogio.hcl", "")
	cmdline.Parse(os.Args[1:]) //nolint:errcheck

	if sdnotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Debugf("hello")

	ctx, g := state.NewContext(log)
	cfg := state.MustReadConfig(log, state.NewOsFullReader(""), *flagConfig)
	log.Debugf("config=%+v", cfg)
	if err := g.Init(ctx, cfg); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	display := g.MustTextDisplay()
	display.SetLines(cfg.UI.MsgBoot, "")

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigch
		log.Debugf("signal received, stopping")
		g.Alive.Stop()
	}()

	uiloop := new(ui.UI)
	if err := uiloop.Init(ctx); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	sdnotify(daemon.SdNotifyReady)
	log.Infof("init complete, running")

	uiloop.Loop(ctx)
	g.Alive.Wait()
	g.Tele.Close()
	display.SetLines("stopped", "")
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
