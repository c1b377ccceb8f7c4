package main

import (
	"github.com/go-pkgz/lgr"

	"github.com/subscope/subscope/pkg/domain"
	"github.com/subscope/subscope/pkg/scheduler"
	"github.com/subscope/subscope/server"
)

// ServeCmd runs the web UI and API until terminated
type ServeCmd struct {
	commonOpts `no-flag:"true"`

	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides server.listen"`
}

// Execute implements flags.Commander
func (c *ServeCmd) Execute(_ []string) error {
	if c.Listen != "" {
		c.cfg.Server.Listen = c.Listen
	}

	store := c.store()
	srv := server.New(c.cfg, store, newCollectRunner(c.cfg, store), c.version, c.debug)

	sched := scheduler.NewScheduler(scheduler.Params{
		Starter:   srv,
		Interval:  c.cfg.GetScheduleConfig().Interval,
		RunParams: c.scheduledParams(),
	})
	sched.Start(c.ctx)
	defer sched.Stop()

	lgr.Printf("[INFO] starting subscope version %s, reports in %s", c.version, c.cfg.Collect.OutputDir)
	if err := srv.Run(c.ctx); err != nil {
		return err
	}
	lgr.Printf("[INFO] shutdown complete")
	return nil
}

// scheduledParams makes parameters of scheduled runs from collection defaults
func (c *ServeCmd) scheduledParams() domain.RunParams {
	cc := c.cfg.Collect
	return domain.RunParams{
		Boards:    c.cfg.GetScheduleConfig().Boards,
		Listing:   domain.Listing(cc.Listing),
		Window:    domain.TimeWindow(cc.Window),
		Limit:     cc.Limit,
		OutputDir: cc.OutputDir,
	}
}
