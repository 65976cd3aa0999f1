package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetfilter/internal/core"
	"github.com/JonMunkholm/sheetfilter/internal/logging"
	"github.com/JonMunkholm/sheetfilter/internal/web/templates"
)

type sessionResponse struct {
	ID       string   `json:"id"`
	Required []string `json:"required"`
}

type openRequest struct {
	Path string `json:"path"`
}

type openResponse struct {
	State   *core.HeaderState `json:"state"`
	Entries []core.Entry      `json:"entries"`
}

type filterResponse struct {
	Result  *core.FilterResult `json:"result"`
	Warning *core.UserMessage  `json:"warning,omitempty"`
	Entries []core.Entry       `json:"entries"`
}

type logResponse struct {
	Entries []core.Entry `json:"entries"`
	Next    int          `json:"next"`
}

type healthResponse struct {
	Status   string                `json:"status"`
	Sessions int                   `json:"sessions"`
	Runs     core.RunLimiterStatus `json:"runs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:   "ok",
		Sessions: s.sessions.Len(),
		Runs:     s.limiter.Status(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("session created", "session", sess.ID)
	writeJSONStatus(w, http.StatusCreated, sessionResponse{
		ID:       sess.ID,
		Required: s.service.Columns().Labels(),
	})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	mark := sess.Journal.Len()
	state, err := s.open(r, sess, req.Path)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, openResponse{State: state, Entries: sess.Journal.Since(mark)})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req core.FilterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	mark := sess.Journal.Len()
	result, err := s.filter(r, sess, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := filterResponse{Result: result, Entries: sess.Journal.Since(mark)}
	if len(result.Missing) > 0 {
		warn := core.MissingColumnsWarning
		resp.Warning = &warn
	}
	writeJSON(w, resp)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	since, _ := strconv.Atoi(r.URL.Query().Get("since"))
	if since < 0 {
		since = 0
	}
	entries := sess.Journal.Since(since)
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, logResponse{Entries: entries, Next: since + len(entries)})
}

// handleIndex starts a session and redirects to its page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	form := sess.Form()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = templates.Page(templates.PageData{
		SessionID:  sess.ID,
		InputPath:  form.InputPath,
		OutputPath: form.OutputPath,
		Column:     form.Column,
		Value:      form.Value,
		State:      sess.State(),
		Required:   s.service.Columns().Labels(),
		Entries:    sess.Journal.Entries(),
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleFormOpen opens the submitted file and redirects back to the page.
// Service failures are shown in the journal, not as HTTP errors.
func (s *Server) handleFormOpen(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.formSession(w, r)
	if !ok {
		return
	}
	if _, err := s.open(r, sess, r.PostFormValue("input")); err != nil && !journaled(err) {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (s *Server) handleFormFilter(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.formSession(w, r)
	if !ok {
		return
	}
	req := core.FilterRequest{
		OutputPath: r.PostFormValue("output"),
		Column:     r.PostFormValue("column"),
		Value:      r.PostFormValue("value"),
	}
	if _, err := s.filter(r, sess, req); err != nil && !journaled(err) {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

// open runs an open operation in sess. The previous file is closed first,
// so a failed open leaves no file open.
func (s *Server) open(r *http.Request, sess *Session, path string) (*core.HeaderState, error) {
	if err := sess.TryBegin(); err != nil {
		return nil, err
	}
	defer sess.End()

	sess.SetState(nil)
	sess.UpdateForm(func(f *FormValues) { f.InputPath = strings.TrimSpace(path) })

	state, err := s.service.OpenFile(r.Context(), sess.Journal, path)
	if err != nil {
		return nil, err
	}
	sess.SetState(state)
	logging.WithFields(r.Context(), "session", sess.ID).Info("session file opened",
		"path", state.InputPath,
		"header_row", state.HeaderRow,
	)
	return state, nil
}

// filter runs a filter operation in sess under a run limiter slot.
func (s *Server) filter(r *http.Request, sess *Session, req core.FilterRequest) (*core.FilterResult, error) {
	if err := sess.TryBegin(); err != nil {
		return nil, err
	}
	defer sess.End()

	sess.UpdateForm(func(f *FormValues) {
		f.OutputPath = req.OutputPath
		f.Column = req.Column
		f.Value = req.Value
	})

	if err := s.limiter.Acquire(r.Context()); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	return s.service.RunFilter(r.Context(), sess.Journal, sess.State(), req)
}

// formSession parses a bounded form body and claims the session from the URL.
func (s *Server) formSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, ErrBadRequest)
		return nil, false
	}
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return sess, true
}

// journaled reports whether err was already written to the session journal
// by a core operation. Busy sessions and a saturated run limiter are refused
// before the core runs.
func journaled(err error) bool {
	return !errors.Is(err, ErrSessionBusy) && !errors.Is(err, core.ErrTooManyRuns)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
