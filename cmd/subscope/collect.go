package main

import (
	"fmt"
	"strconv"

	"github.com/go-pkgz/lgr"

	"github.com/subscope/subscope/pkg/domain"
)

// CollectCmd runs a single collection and prints per-board summary
type CollectCmd struct {
	commonOpts `no-flag:"true"`

	Boards  []string `short:"b" long:"board" required:"true" description:"board name, repeatable or comma separated"`
	Listing string   `short:"l" long:"listing" description:"listing type: top, hot, new or controversial"`
	Window  string   `short:"w" long:"window" description:"time window for top and controversial: day, week, month, year or all"`
	Limit   int      `short:"n" long:"limit" description:"number of posts per board"`
	Out     string   `short:"o" long:"out" description:"output directory"`
}

// Execute implements flags.Commander
func (c *CollectCmd) Execute(_ []string) error {
	params := c.params()
	runner := newCollectRunner(c.cfg, c.store())
	coll := runner.collector(lgr.Default())

	path, err := coll.Run(c.ctx, params)

	rows := [][]string{}
	for _, s := range coll.LastSummary() {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}
		rows = append(rows, []string{"r/" + s.Board, strconv.Itoa(s.Posts), strconv.Itoa(s.Skipped), status})
	}
	if len(rows) > 0 {
		fmt.Fprintln(c.out, renderTable([]string{"Board", "Posts", "Skipped", "Status"}, rows, 1, 2))
	}

	if err != nil {
		if path != "" {
			lgr.Printf("[WARN] partial report kept in %s", path)
		}
		return fmt.Errorf("collection failed: %w", err)
	}
	fmt.Fprintf(c.out, "report saved to %s\n", path)
	return nil
}

// params makes run parameters from flags, unset flags take collection defaults from config
func (c *CollectCmd) params() domain.RunParams {
	cc := c.cfg.Collect
	res := domain.RunParams{
		Listing:   domain.Listing(cc.Listing),
		Window:    domain.TimeWindow(cc.Window),
		Limit:     cc.Limit,
		OutputDir: cc.OutputDir,
	}
	for _, b := range c.Boards {
		res.Boards = append(res.Boards, domain.ParseBoards(b)...)
	}
	if c.Listing != "" {
		res.Listing = domain.Listing(c.Listing)
	}
	if c.Window != "" {
		res.Window = domain.TimeWindow(c.Window)
	}
	if c.Limit != 0 {
		res.Limit = c.Limit
	}
	if c.Out != "" {
		res.OutputDir = c.Out
	}
	return res
}
