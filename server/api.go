package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/subscope/subscope/pkg/keywords"
)

// collectRequest is the body of POST /api/v1/collect, empty fields take collection defaults
type collectRequest struct {
	Boards  []string `json:"boards"`
	Listing string   `json:"listing"`
	Window  string   `json:"window"`
	Limit   int      `json:"limit"`
}

type topicRequest struct {
	Name string `json:"name"`
}

type keywordsRequest struct {
	Keywords []string `json:"keywords"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":     "ok",
		"version":    s.version,
		"time":       time.Now().UTC(),
		"active_job": s.jobs.Active(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// collectAPIHandler starts a collection job, responds with 202 and the job state
func (s *Server) collectAPIHandler(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid request body")
		return
	}

	params := s.runParams(req.Boards, req.Listing, req.Window, req.Limit)
	if err := params.Validate(); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, err.Error())
		return
	}

	job, err := s.jobs.Start(params)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrJobActive) {
			code = http.StatusConflict
		}
		rest.SendErrorJSON(w, r, lgr.Default(), code, err, err.Error())
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+job.ID)
	renderJSON(w, r, http.StatusAccepted, job)
}

// jobAPIHandler returns job status, messages and result file
func (s *Server) jobAPIHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok := s.jobs.Get(id)
	if !ok {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusNotFound, fmt.Errorf("job %s not found", id), "job not found")
		return
	}
	renderJSON(w, r, http.StatusOK, job)
}

// listKeywordsHandler returns topics with keywords in store order
func (s *Server) listKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.keywords.Load())
}

// addTopicHandler creates a topic with empty keyword list
func (s *Server) addTopicHandler(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid request body")
		return
	}
	name := s.sanitize(req.Name)
	topics, err := s.keywords.Update(func(t *keywords.Topics) error {
		_, err := t.Add(name)
		return err
	})
	s.respondTopics(w, r, http.StatusCreated, topics, err)
}

// replaceKeywordsHandler sets keyword list of the topic
func (s *Server) replaceKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid request body")
		return
	}
	topic := r.PathValue("topic")
	kws := s.sanitizeAll(req.Keywords)
	topics, err := s.keywords.Update(func(t *keywords.Topics) error { return t.Replace(topic, kws) })
	s.respondTopics(w, r, http.StatusOK, topics, err)
}

// deleteTopicHandler removes the topic
func (s *Server) deleteTopicHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")
	topics, err := s.keywords.Update(func(t *keywords.Topics) error { return t.Delete(topic) })
	s.respondTopics(w, r, http.StatusOK, topics, err)
}

// resetKeywordsHandler restores default topics
func (s *Server) resetKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	topics, err := s.keywords.Update(func(t *keywords.Topics) error {
		t.Reset()
		return nil
	})
	s.respondTopics(w, r, http.StatusOK, topics, err)
}

func (s *Server) respondTopics(w http.ResponseWriter, r *http.Request, code int, topics *keywords.Topics, err error) {
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), topicErrorCode(err), err, err.Error())
		return
	}
	renderJSON(w, r, code, topics)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
