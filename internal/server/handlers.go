package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/san-kum/vgsales/internal/scene"
)

type step struct {
	Number int
	Title  string
	Active bool
}

type pageData struct {
	Scene     scene.Snapshot
	Number    int
	Narrative template.HTML
	Content   template.HTML
	Steps     []step
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	snap := s.nav.Snapshot()
	data := pageData{
		Scene:   snap,
		Number:  snap.Index + 1,
		Content: template.HTML(snap.Markup), // element text and attributes are escaped on render
	}
	if snap.Index < len(s.narratives) {
		data.Narrative = s.narratives[snap.Index]
	}
	for i, sc := range s.nav.Scenes() {
		data.Steps = append(data.Steps, step{Number: i + 1, Title: sc.Title, Active: i == snap.Index})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("rendering page", zap.Error(err))
	}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	_, err := s.nav.Advance(r.Context())
	s.logRender(err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	_, err := s.nav.Retreat(r.Context())
	s.logRender(err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleGoto takes a one-based scene number.
func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || n < 1 || n > s.nav.Len() {
		writeError(w, http.StatusBadRequest, "scene must be a number between 1 and "+strconv.Itoa(s.nav.Len()))
		return
	}
	_, err = s.nav.Goto(r.Context(), n-1)
	s.logRender(err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	err := s.nav.Select(r.Context(), r.PostFormValue("genre"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, scene.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scene.ErrNoFilter), errors.Is(err, scene.ErrNotMounted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("applying filter", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "filter failed")
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.nav.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRender logs render failures. The navigator already shows them in the
// error panel, so the request still succeeds.
func (s *Server) logRender(err error) {
	if err != nil {
		s.logger.Warn("scene render failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
