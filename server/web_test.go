package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscope/subscope/pkg/config"
	"github.com/subscope/subscope/pkg/keywords"
	"github.com/subscope/subscope/server/mocks"
)

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestServer_indexHandler(t *testing.T) {
	srv, _, outDir := testServer(t, doneRunner())
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "reddit_data_2024-06-01.csv"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "reddit_data_2024-06-02.csv"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "notes.txt"), []byte("x"), 0o600))

	w := get(srv, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, `action="/collect"`)
	assert.Contains(t, body, `value="25"`)
	assert.Contains(t, body, `<option value="top" selected>`)
	assert.Contains(t, body, `<option value="week" selected>`)
	assert.Contains(t, body, `/download/reddit_data_2024-06-02.csv`)
	assert.NotContains(t, body, "notes.txt")
	assert.Less(t, strings.Index(body, "2024-06-02"), strings.Index(body, "2024-06-01"), "newest report first")
}

func TestServer_collectFormHandler(t *testing.T) {
	runner := doneRunner()
	srv, _, outDir := testServer(t, runner)

	w := postForm(srv, "/collect", url.Values{
		"boards":  {" Entrepreneur, ,SideProject "},
		"listing": {"new"},
		"window":  {"day"},
		"limit":   {"10"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/jobs/"), loc)

	job := waitJob(t, srv, strings.TrimPrefix(loc, "/jobs/"))
	assert.Equal(t, JobDone, job.Status)
	assert.Equal(t, []string{"[INFO] collecting r/Entrepreneur", `[WARN] skip post "x1"`}, job.Messages)
	assert.Equal(t, "reddit_data_2024-06-01.csv", job.FileName())

	require.Len(t, runner.RunCalls(), 1)
	params := runner.RunCalls()[0].Params
	assert.Equal(t, []string{"Entrepreneur", "SideProject"}, params.Boards)
	assert.Equal(t, "new", string(params.Listing))
	assert.Equal(t, "day", string(params.Window))
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, outDir, params.OutputDir)

	// job page shows messages and download link
	w = get(srv, loc)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Collection done")
	assert.Contains(t, body, "collecting r/Entrepreneur")
	assert.Contains(t, body, `href="/download/reddit_data_2024-06-01.csv"`)
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestServer_collectFormHandlerInvalid(t *testing.T) {
	runner := doneRunner()
	srv, _, _ := testServer(t, runner)

	tbl := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"no boards", url.Values{"boards": {" , "}, "limit": {"5"}}, "at least one board is required"},
		{"bad limit", url.Values{"boards": {"golang"}, "limit": {"many"}}, "post limit must be a number"},
		{"negative limit", url.Values{"boards": {"golang"}, "limit": {"-1"}}, "post limit must be at least 1"},
		{"bad window", url.Values{"boards": {"golang"}, "limit": {"5"}, "listing": {"top"}, "window": {"decade"}}, "invalid time window"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(srv, "/collect", tt.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
		})
	}
	assert.Empty(t, runner.RunCalls())
}

func TestServer_collectFormHandlerConflict(t *testing.T) {
	release := make(chan struct{})
	srv, _, _ := testServer(t, blockingRunner(release))

	form := url.Values{"boards": {"golang"}, "limit": {"5"}}
	w := postForm(srv, "/collect", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	id := strings.TrimPrefix(w.Header().Get("Location"), "/jobs/")

	// running job page refreshes itself
	page := get(srv, "/jobs/"+id)
	assert.Contains(t, page.Body.String(), `http-equiv="refresh"`)
	assert.Contains(t, get(srv, "/").Body.String(), "/jobs/"+id)

	w = postForm(srv, "/collect", form)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "collection already running")

	close(release)
	assert.Equal(t, JobDone, waitJob(t, srv, id).Status)

	// next job can start once the previous one finished
	w = postForm(srv, "/collect", form)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestServer_jobPageHandlerNotFound(t *testing.T) {
	srv, _, _ := testServer(t, doneRunner())
	w := get(srv, "/jobs/no-such-job")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_downloadHandler(t *testing.T) {
	srv, _, outDir := testServer(t, doneRunner())
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "reddit_data_2024-06-01.csv"), []byte("post_id\np1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "secret.txt"), []byte("secret"), 0o600))

	t.Run("report", func(t *testing.T) {
		w := get(srv, "/download/reddit_data_2024-06-01.csv")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "post_id\np1\n", w.Body.String())
		assert.Equal(t, `attachment; filename="reddit_data_2024-06-01.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("not a report", func(t *testing.T) {
		w := get(srv, "/download/secret.txt")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "secret\n")
	})

	t.Run("escaped traversal", func(t *testing.T) {
		w := get(srv, "/download/..%2Fsecret.txt")
		assert.NotEqual(t, http.StatusOK, w.Code)
	})

	t.Run("missing report", func(t *testing.T) {
		w := get(srv, "/download/reddit_data_2020-01-01.csv")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_keywordsPageHandler(t *testing.T) {
	srv, _, _ := testServer(t, doneRunner())
	w := get(srv, "/keywords")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, name := range keywords.Defaults().Names() {
		assert.Contains(t, body, "<h2>"+name+"</h2>")
	}
	assert.Contains(t, body, "money\nincome\nprofit")
	assert.Less(t, strings.Index(body, "<h2>finance</h2>"), strings.Index(body, "<h2>productivity</h2>"))
}

func TestServer_keywordsFormHandler(t *testing.T) {
	srv, store, _ := testServer(t, doneRunner())

	// add topic, markup stripped and name normalized
	w := postForm(srv, "/keywords", url.Values{"action": {actionAddTopic}, "topic": {"<b>Gaming</b>"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/keywords", w.Header().Get("Location"))
	kws, ok := store.Load().Keywords("gaming")
	require.True(t, ok)
	assert.Empty(t, kws)

	// duplicate
	w = postForm(srv, "/keywords", url.Values{"action": {actionAddTopic}, "topic": {"gaming"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "topic already exists")

	// empty name
	w = postForm(srv, "/keywords", url.Values{"action": {actionAddTopic}, "topic": {"  "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// update keywords, one per line
	w = postForm(srv, "/keywords", url.Values{
		"action": {actionUpdateKeywords}, "topic": {"gaming"}, "keywords": {"steam\r\n <i>xbox</i> \r\n\r\nnintendo & co"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	kws, _ = store.Load().Keywords("gaming")
	assert.Equal(t, []string{"steam", "xbox", "nintendo & co"}, kws)

	// delete
	w = postForm(srv, "/keywords", url.Values{"action": {actionDeleteTopic}, "topic": {"finance"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	_, ok = store.Load().Keywords("finance")
	assert.False(t, ok)

	w = postForm(srv, "/keywords", url.Values{"action": {actionDeleteTopic}, "topic": {"finance"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// reset
	w = postForm(srv, "/keywords", url.Values{"action": {actionReset}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, keywords.Defaults().Names(), store.Load().Names())

	// unknown action
	w = postForm(srv, "/keywords", url.Values{"action": {"rename"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown action")
}

func TestServer_keywordsFormHandlerStoreError(t *testing.T) {
	store := &mocks.KeywordStoreMock{
		LoadFunc: keywords.Defaults,
		UpdateFunc: func(fn func(*keywords.Topics) error) (*keywords.Topics, error) {
			return nil, errors.New("disk full")
		},
	}
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc:  func() (string, time.Duration) { return ":8080", time.Second },
		GetCollectConfigFunc: func() config.CollectConfig { return config.CollectConfig{OutputDir: t.TempDir()} },
	}
	srv := New(cfg, store, doneRunner(), "test", false)

	w := postForm(srv, "/keywords", url.Values{"action": {actionReset}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "disk full")
	assert.Len(t, store.UpdateCalls(), 1)
}
