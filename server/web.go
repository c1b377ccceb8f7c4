package server

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/subscope/subscope/pkg/domain"
	"github.com/subscope/subscope/pkg/keywords"
)

// form actions of the keywords page
const (
	actionAddTopic       = "add_topic"
	actionUpdateKeywords = "update_keywords"
	actionDeleteTopic    = "delete_topic"
	actionReset          = "reset"
)

// reportNameRx matches names of files produced by the collector, nothing else can be downloaded
var reportNameRx = regexp.MustCompile(`^reddit_data_\d{4}-\d{2}-\d{2}\.csv$`)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"lines": func(kws []string) string {
		return strings.Join(kws, "\n")
	},
}

var (
	listingChoices = []domain.Listing{domain.ListingTop, domain.ListingHot, domain.ListingNew, domain.ListingControversial}
	windowChoices  = []domain.TimeWindow{domain.WindowDay, domain.WindowWeek, domain.WindowMonth, domain.WindowYear, domain.WindowAll}
)

// pageMeta holds fields used by the common page layout
type pageMeta struct {
	Version string
	Refresh bool // reload page periodically
}

type indexPage struct {
	pageMeta
	Boards    string
	Listing   string
	Window    string
	Limit     int
	Listings  []domain.Listing
	Windows   []domain.TimeWindow
	Reports   []string
	ActiveJob string
	Error     string
}

type topicView struct {
	Name     string
	Keywords []string
}

type keywordsPage struct {
	pageMeta
	Topics []topicView
	Error  string
}

type jobPage struct {
	pageMeta
	Job Job
}

// indexHandler shows collection form and existing reports
func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	cc := s.config.GetCollectConfig()
	s.renderIndex(w, http.StatusOK, indexPage{Listing: cc.Listing, Window: cc.Window, Limit: cc.Limit})
}

// collectFormHandler starts collection from the web form and redirects to the job page
func (s *Server) collectFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, indexPage{Error: "invalid form data"})
		return
	}

	form := indexPage{
		Boards:  strings.TrimSpace(r.FormValue("boards")),
		Listing: r.FormValue("listing"),
		Window:  r.FormValue("window"),
	}
	limit, err := strconv.Atoi(strings.TrimSpace(r.FormValue("limit")))
	if err != nil {
		form.Error = "post limit must be a number"
		s.renderIndex(w, http.StatusBadRequest, form)
		return
	}
	form.Limit = limit

	params := s.runParams(domain.ParseBoards(form.Boards), form.Listing, form.Window, limit)
	if err := params.Validate(); err != nil {
		form.Error = err.Error()
		s.renderIndex(w, http.StatusBadRequest, form)
		return
	}

	job, err := s.jobs.Start(params)
	if err != nil {
		form.Error = err.Error()
		code := http.StatusInternalServerError
		if errors.Is(err, ErrJobActive) {
			code = http.StatusConflict
		}
		s.renderIndex(w, code, form)
		return
	}

	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

// jobPageHandler shows job progress, the page refreshes itself while the job is running
func (s *Server) jobPageHandler(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	meta := pageMeta{Version: s.version, Refresh: job.Status == JobRunning}
	s.render(w, http.StatusOK, "job.html", jobPage{pageMeta: meta, Job: job})
}

// downloadHandler serves a report file from the output directory
func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !reportNameRx.MatchString(name) {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.config.GetCollectConfig().OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeFile(w, r, path)
}

// keywordsPageHandler shows topics with their keywords
func (s *Server) keywordsPageHandler(w http.ResponseWriter, _ *http.Request) {
	s.renderKeywords(w, http.StatusOK, s.keywords.Load(), "")
}

// keywordsFormHandler applies a keyword form action and redirects back to the keywords page
func (s *Server) keywordsFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderKeywords(w, http.StatusBadRequest, s.keywords.Load(), "invalid form data")
		return
	}

	topic := s.sanitize(r.FormValue("topic"))
	var fn func(t *keywords.Topics) error
	switch r.FormValue("action") {
	case actionAddTopic:
		fn = func(t *keywords.Topics) error {
			_, err := t.Add(topic)
			return err
		}
	case actionUpdateKeywords:
		kws := s.sanitizeAll(keywords.SplitLines(r.FormValue("keywords")))
		fn = func(t *keywords.Topics) error { return t.Replace(topic, kws) }
	case actionDeleteTopic:
		fn = func(t *keywords.Topics) error { return t.Delete(topic) }
	case actionReset:
		fn = func(t *keywords.Topics) error {
			t.Reset()
			return nil
		}
	default:
		s.renderKeywords(w, http.StatusBadRequest, s.keywords.Load(), "unknown action")
		return
	}

	if _, err := s.keywords.Update(fn); err != nil {
		lgr.Printf("[WARN] keyword action %s failed: %v", r.FormValue("action"), err)
		s.renderKeywords(w, topicErrorCode(err), s.keywords.Load(), err.Error())
		return
	}

	http.Redirect(w, r, "/keywords", http.StatusSeeOther)
}

// runParams builds run parameters, empty values are taken from the collection defaults
func (s *Server) runParams(boards []string, listing, window string, limit int) domain.RunParams {
	cc := s.config.GetCollectConfig()
	if listing == "" {
		listing = cc.Listing
	}
	if window == "" {
		window = cc.Window
	}
	if limit == 0 {
		limit = cc.Limit
	}
	return domain.RunParams{
		Boards:    boards,
		Listing:   domain.Listing(listing),
		Window:    domain.TimeWindow(window),
		Limit:     limit,
		OutputDir: cc.OutputDir,
	}
}

// reports returns names of report files in the output directory, newest first
func (s *Server) reports() []string {
	entries, err := os.ReadDir(s.config.GetCollectConfig().OutputDir)
	if err != nil {
		return nil
	}
	res := []string{}
	for _, e := range entries {
		if !e.IsDir() && reportNameRx.MatchString(e.Name()) {
			res = append(res, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(res)))
	return res
}

// sanitize strips any markup from user input
func (s *Server) sanitize(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
}

func (s *Server) sanitizeAll(vals []string) []string {
	res := make([]string, 0, len(vals))
	for _, v := range vals {
		res = append(res, s.sanitize(v))
	}
	return res
}

func (s *Server) renderIndex(w http.ResponseWriter, code int, data indexPage) {
	data.Version = s.version
	data.Listings = listingChoices
	data.Windows = windowChoices
	data.Reports = s.reports()
	data.ActiveJob = s.jobs.Active()
	s.render(w, code, "index.html", data)
}

func (s *Server) renderKeywords(w http.ResponseWriter, code int, topics *keywords.Topics, errMsg string) {
	data := keywordsPage{pageMeta: pageMeta{Version: s.version}, Error: errMsg}
	topics.Each(func(name string, kws []string) bool {
		data.Topics = append(data.Topics, topicView{Name: name, Keywords: kws})
		return true
	})
	s.render(w, code, "keywords.html", data)
}

// render executes the page template into a buffer first, so a template error doesn't leave a partial page
func (s *Server) render(w http.ResponseWriter, code int, name string, data any) {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		lgr.Printf("[ERROR] failed to render %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(buf.String()))
}

// topicErrorCode maps keyword store errors to http status
func topicErrorCode(err error) int {
	switch {
	case errors.Is(err, keywords.ErrEmptyTopic):
		return http.StatusBadRequest
	case errors.Is(err, keywords.ErrTopicExists):
		return http.StatusConflict
	case errors.Is(err, keywords.ErrTopicNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
