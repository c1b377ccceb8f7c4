package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Listing is the ranking mode used to retrieve posts
type Listing string

// listing types
const (
	ListingTop           Listing = "top"
	ListingHot           Listing = "hot"
	ListingNew           Listing = "new"
	ListingControversial Listing = "controversial"
)

// Resolve maps unknown listing values to top
func (l Listing) Resolve() Listing {
	switch l {
	case ListingTop, ListingHot, ListingNew, ListingControversial:
		return l
	default:
		return ListingTop
	}
}

// UsesWindow reports whether the listing is computed over a time window
func (l Listing) UsesWindow() bool {
	r := l.Resolve()
	return r == ListingTop || r == ListingControversial
}

// TimeWindow is the retrospective period for top and controversial rankings
type TimeWindow string

// time windows
const (
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

// Valid reports whether the window is one of the known values
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll:
		return true
	}
	return false
}

// RunParams holds caller-supplied parameters of a single collection run
type RunParams struct {
	Boards    []string
	Listing   Listing
	Window    TimeWindow
	Limit     int
	OutputDir string
}

// ParseBoards splits a comma separated list of board names, dropping blanks
func ParseBoards(s string) []string {
	res := []string{}
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			res = append(res, b)
		}
	}
	return res
}

// Validate checks run parameters and trims board names in place
func (p *RunParams) Validate() error {
	boards := make([]string, 0, len(p.Boards))
	for _, b := range p.Boards {
		if b = strings.TrimSpace(b); b != "" {
			boards = append(boards, b)
		}
	}
	if len(boards) == 0 {
		return errors.New("at least one board is required")
	}
	p.Boards = boards

	if p.Limit < 1 {
		return fmt.Errorf("post limit must be at least 1, got %d", p.Limit)
	}
	if p.Listing.UsesWindow() && !p.Window.Valid() {
		return fmt.Errorf("invalid time window %q", p.Window)
	}
	if strings.TrimSpace(p.OutputDir) == "" {
		return errors.New("output directory is required")
	}
	return nil
}
