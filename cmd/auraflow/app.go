package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/stigoleg/auraflow/internal/config"
	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stigoleg/auraflow/internal/jiggler"
	"github.com/stigoleg/auraflow/internal/metrics"
	"github.com/stigoleg/auraflow/internal/pointer"
	"github.com/stigoleg/auraflow/internal/ui"
	"github.com/stigoleg/auraflow/internal/util"
)

const shutdownTimeout = 5 * time.Second

// run wires the controller, pointer backend, event bus and metrics together
// and hands control to the TUI or the headless runner.
func run(c *cobra.Command, cfg *config.Config) error {
	idle, interval, err := cfg.Settings()
	if err != nil {
		return err
	}
	length, err := cfg.SessionLength(time.Now())
	if err != nil {
		return err
	}

	cleanup := jiggler.NewCleanupManager(shutdownTimeout)
	defer func() {
		if err := cleanup.Shutdown(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}()

	if !cfg.Headless {
		f, err := tea.LogToFile(cfg.LogFile, "auraflow")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		cleanup.RegisterFunc("log file", f.Close)
	}

	dev, err := pointer.Open(cfg.Backend)
	if err != nil {
		return fmt.Errorf("opening pointer backend %q: %w", cfg.Backend, err)
	}
	log.Printf("pointer: using %s backend", dev.Name())

	bus := event.NewBus()
	cleanup.RegisterFunc("event bus", func() error {
		bus.Close()
		return nil
	})

	ctrl := jiggler.NewController(jiggler.NewSettings(idle, interval), pointer.NewProbe(dev), bus)
	cleanup.RegisterController(ctrl)

	if cfg.MetricsAddr != "" {
		srv, err := startMetrics(cfg.MetricsAddr, bus, ctrl)
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		cleanup.RegisterFunc("metrics server", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout/2)
			defer cancel()
			return srv.Shutdown(ctx)
		})
	}

	// Subscribe before starting so the first Started event is not missed.
	sub := bus.Subscribe(event.DefaultBuffer)

	if cfg.Autostart {
		if err := autostart(ctrl, length); err != nil {
			return err
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)
	defer signal.Stop(sigChan)

	if cfg.Headless {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case sig := <-sigChan:
				log.Printf("received signal: %v", sig)
				cancel()
			case <-ctx.Done():
			}
		}()
		runHeadless(ctx, ctrl, sub.C(), c.ErrOrStderr())
		return nil
	}

	model := ui.NewModel(ctrl, sub.C())
	model.SetVersion(appVersion)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())

	go func() {
		sig := <-sigChan
		log.Printf("received signal: %v", sig)
		if _, err := ctrl.Stop(); err != nil {
			log.Printf("jiggler: stop on signal: %v", err)
		}
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func autostart(ctrl *jiggler.Controller, length time.Duration) error {
	var err error
	if length > 0 {
		log.Printf("auraflow: timed session of %s", util.FormatRemaining(length))
		_, err = ctrl.StartTimed(length)
	} else {
		_, err = ctrl.Start()
	}
	return err
}

func startMetrics(addr string, bus *event.Bus, ctrl *jiggler.Controller) (*metrics.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector := metrics.NewCollector(reg, ctrl.IsRunning)
	go collector.Consume(bus.Subscribe(event.DefaultBuffer))

	return metrics.Listen(addr, reg)
}
