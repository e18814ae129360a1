package system

import (
	"os/signal"
	"syscall"

	"github.com/julianstephens/carelog/internal/api"
	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/config"
	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/metrics"
	"github.com/julianstephens/carelog/internal/notifier"
	"github.com/julianstephens/carelog/internal/reminder"
)

type ServeCmd struct {
	Addr      string `help:"Listen address, overrides server.addr from carelog.yaml."`
	Reminders *bool  `help:"Run the medication reminder job alongside the server."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg, err := config.Read(ctx.ConfigDir)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.Reminders != nil {
		cfg.Reminder.Enabled = *c.Reminders
	}

	runCtx, stop := signal.NotifyContext(ctx.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Reminder.Enabled {
		r := reminder.New(ctx.Service, notifier.New(), reminder.WithMetrics(m))
		sched, err := r.Start(runCtx)
		if err != nil {
			return err
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				logger.Warn("failed to stop reminder scheduler", "err", err)
			}
		}()
	}

	ctx.Printf("carelog API listening on %s\n", cfg.Server.Addr)
	return api.New(ctx.Service, cfg, m).Run(runCtx)
}

type RemindCmd struct {
	Once bool `help:"Check once for due reminders and exit."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	r := reminder.New(ctx.Service, notifier.New())
	if c.Once {
		sent, err := r.Tick(ctx.Ctx)
		if err != nil {
			return err
		}
		ctx.Printf("Sent %d reminder(s).\n", sent)
		return nil
	}

	runCtx, stop := signal.NotifyContext(ctx.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx.Println("Medication reminders running. Press Ctrl+C to stop.")
	return r.Run(runCtx)
}
