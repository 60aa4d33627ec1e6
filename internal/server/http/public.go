package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/model"
)

// pingRequest is the startup check body sent by client probes.
type pingRequest struct {
	HWID        string `json:"hwid"`
	ProgramCode string `json:"program_code"`
}

// activationRequest is the unauthenticated activation ask.
type activationRequest struct {
	HWID        string `json:"hwid"`
	ProgramCode string `json:"program_code"`
	Note        string `json:"note,omitempty"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handlePing answers "is this device authorized for this program right now".
// Well-formed but unauthorized input is a 200 with authorized=false; missing
// parameters are a 400 with a machine-readable reason.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	var req pingRequest
	if err := decodeStrict(r, &req); err != nil {
		s.missingParameters(w, r, map[string]any{"authorized": false})
		return
	}
	ok, err := s.licenses.CheckAuthorization(r.Context(), model.Fingerprint(req.HWID), model.ProgramCode(req.ProgramCode))
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRequest) {
			s.missingParameters(w, r, map[string]any{"authorized": false})
			return
		}
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"authorized": ok})
}

// handleRequestActivation files a pending activation request.
func (s *Server) handleRequestActivation(w http.ResponseWriter, r *http.Request) {
	var req activationRequest
	if err := decodeStrict(r, &req); err != nil {
		s.missingParameters(w, r, map[string]any{"ok": false})
		return
	}
	_, err := s.requests.Submit(r.Context(), model.Fingerprint(req.HWID), model.ProgramCode(req.ProgramCode), req.Note)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRequest) {
			s.missingParameters(w, r, map[string]any{"ok": false})
			return
		}
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"ok": true, "message": "request_received"})
}

func (s *Server) missingParameters(w http.ResponseWriter, r *http.Request, base map[string]any) {
	base["reason"] = "missing_parameters"
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, base)
}

// handleLogin authenticates and returns a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeStrict(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tok, _, err := s.auth.LoginWithIP(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"token":      tok.AccessToken,
		"expires_at": tok.ExpiresAt.Format(time.RFC3339),
	})
}

// handleRegister creates a guest account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeStrict(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{"user_id": id})
}
