package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// handleListPrograms serves the catalog to any logged-in user.
func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	ps, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"programs": s.programViews(ps)})
}

// handleDownloadProgram streams the program file from the file store.
func (s *Server) handleDownloadProgram(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rc, size, err := s.files.Open(p.FileName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	if _, err := io.Copy(w, rc); err != nil {
		// headers are gone, nothing to do but log
		s.log.Warn("download aborted", zap.Error(err), zap.String("file", p.FileName))
	}
}
