package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscope/subscope/pkg/domain"
)

const listingJSON = `{"kind":"Listing","data":{"after":%q,"children":[
 {"kind":"t3","data":{"id":"p1","subreddit":"golang","title":"Go 1.24 released","author":"gopher",
  "selftext":"new features","url":"https://go.dev/blog","permalink":"/r/golang/comments/p1/go_124/",
  "score":120,"upvote_ratio":0.97,"num_comments":14,"created_utc":1717243200.0,"is_self":true,
  "link_flair_text":"news"}},
 {"kind":"t3","data":{"id":"p2","subreddit":"golang","title":"Link post","author":"",
  "selftext":"","url":"https://example.com","permalink":"/r/golang/comments/p2/link_post/",
  "score":3,"upvote_ratio":1.2,"num_comments":0,"created_utc":1717246800.5,"is_self":false,
  "link_flair_text":null}}
]}}`

const commentsJSON = `[
 {"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"p1"}}]}},
 {"kind":"Listing","data":{"children":[
  {"kind":"t1","data":{"id":"c1","body":"low","score":1,"depth":0}},
  {"kind":"t1","data":{"id":"c2","body":"high","score":50,"depth":0}},
  {"kind":"t1","data":{"id":"c3","body":"nested","score":99,"depth":1}},
  {"kind":"t1","data":{"id":"c4","body":"mid","score":10,"depth":0}},
  {"kind":"t1","data":{"id":"c5","body":"mid2","score":10,"depth":0}},
  {"kind":"more","data":{"id":"m1"}}
 ]}}
]`

func testClient(baseURL string) *Client {
	return NewClient(Config{BaseURL: baseURL, UserAgent: "test-agent", Timeout: 5 * time.Second})
}

func TestClient_Listing(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/top.json", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, listingJSON, "")
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).Listing(context.Background(), "golang", domain.ListingTop, domain.WindowWeek, 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"week"}, q["t"])
	assert.Equal(t, []string{"5"}, q["limit"])
	assert.Equal(t, []string{"1"}, q["raw_json"])

	p := posts[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "golang", p.Board)
	assert.Equal(t, "gopher", p.Author)
	assert.Equal(t, 120, p.Score)
	assert.InDelta(t, 0.97, p.UpvoteRatio, 1e-9)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), p.CreatedUTC)
	assert.True(t, p.IsSelf)
	assert.Equal(t, "news", p.Flair)
	assert.Equal(t, "/r/golang/comments/p1/go_124/", p.Permalink)

	// empty author and out of range ratio are normalized
	assert.Equal(t, "[deleted]", posts[1].Author)
	assert.InDelta(t, 1.0, posts[1].UpvoteRatio, 1e-9)
	assert.Empty(t, posts[1].Flair)
}

func TestClient_ListingNoWindowForNew(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/new.json", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("t"))
		_, _ = fmt.Fprintf(w, listingJSON, "")
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).Listing(context.Background(), "golang", domain.ListingNew, domain.WindowWeek, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestClient_ListingUnknownTypeIsTop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/top.json", r.URL.Path)
		_, _ = fmt.Fprintf(w, listingJSON, "")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Listing(context.Background(), "golang", domain.Listing("rising"), domain.WindowDay, 2)
	require.NoError(t, err)
}

func TestClient_ListingPaginates(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			assert.Empty(t, r.URL.Query().Get("after"))
			_, _ = fmt.Fprintf(w, listingJSON, "t3_p2")
			return
		}
		assert.Equal(t, "t3_p2", r.URL.Query().Get("after"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = fmt.Fprintf(w, listingJSON, "t3_p4")
	}))
	defer srv.Close()

	posts, err := testClient(srv.URL).Listing(context.Background(), "golang", domain.ListingHot, "", 3)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_ListingErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		_, err := testClient(srv.URL).Listing(context.Background(), "nosuchboard", domain.ListingTop, domain.WindowDay, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.NotErrorIs(t, err, ErrUnreachable)
	})

	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()
		_, err := testClient(srv.URL).Listing(context.Background(), "golang", domain.ListingTop, domain.WindowDay, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := testClient("http://127.0.0.1:1").Listing(ctx, "golang", domain.ListingTop, domain.WindowDay, 5)
		require.Error(t, err)
	})
}

func TestClient_TopComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/comments/p1/go_124.json", r.URL.Path)
		assert.Equal(t, "top", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(commentsJSON))
	}))
	defer srv.Close()

	post := domain.Post{ID: "p1", Permalink: "/r/golang/comments/p1/go_124/"}
	comments, err := testClient(srv.URL).TopComments(context.Background(), post, 3)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "high", comments[0].Body)
	assert.Equal(t, "mid", comments[1].Body)
	assert.Equal(t, "mid2", comments[2].Body)

	all, err := testClient(srv.URL).TopComments(context.Background(), post, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4, "nested comments and more placeholders skipped")
}

func TestClient_TopCommentsNoPermalink(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").TopComments(context.Background(), domain.Post{ID: "x"}, 3)
	require.Error(t, err)
}

func TestClient_OAuth(t *testing.T) {
	var tokenCalls int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer tok", r.Header.Get("Authorization"))
		_, _ = fmt.Fprintf(w, listingJSON, "")
	}))
	defer api.Close()

	c := NewClient(Config{AuthURL: auth.URL, OAuthURL: api.URL, ClientID: "id", ClientSecret: "secret"})
	for range 2 {
		posts, err := c.Listing(context.Background(), "golang", domain.ListingHot, "", 2)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "token cached")
}

func TestClient_OAuthFailureIsUnreachable(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer auth.Close()

	c := NewClient(Config{AuthURL: auth.URL, OAuthURL: "http://127.0.0.1:1", ClientID: "id", ClientSecret: "bad"})
	_, err := c.Listing(context.Background(), "golang", domain.ListingTop, domain.WindowDay, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, listingJSON, "")
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, RateLimit: 100 * time.Millisecond})
	st := time.Now()
	for range 3 {
		_, err := c.Listing(context.Background(), "golang", domain.ListingNew, "", 1)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(st), 190*time.Millisecond)
}
