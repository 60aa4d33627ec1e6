package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/licensegate/licensegate/internal/model"
)

// licenseView is the admin JSON shape. Raw keys are exposed here on
// purpose: admins mint them and the dashboard displays them.
type licenseView struct {
	ID          string  `json:"id"`
	Fingerprint string  `json:"hwid"`
	ProgramCode string  `json:"program_code"`
	Key         string  `json:"license_key"`
	Active      bool    `json:"active"`
	LastSeen    *string `json:"last_seen"`
	CreatedAt   string  `json:"created_at"`
}

type requestView struct {
	ID          string `json:"id"`
	Fingerprint string `json:"hwid"`
	ProgramCode string `json:"program_code"`
	Note        string `json:"note"`
	CreatedAt   string `json:"created_at"`
}

type programView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	File        string `json:"file"`
	CreatedAt   string `json:"created_at"`
}

type userView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func toLicenseView(l model.License) licenseView {
	v := licenseView{
		ID:          l.ID.String(),
		Fingerprint: string(l.Fingerprint),
		ProgramCode: string(l.ProgramCode),
		Key:         l.Key,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if l.LastSeen != nil {
		seen := l.LastSeen.Format(time.RFC3339)
		v.LastSeen = &seen
	}
	return v
}

// --- Licenses ---

type grantRequest struct {
	HWID        string `json:"hwid"`
	ProgramCode string `json:"program_code"`
}

func (s *Server) handleAdminListLicenses(w http.ResponseWriter, r *http.Request) {
	ls, err := s.licenses.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]licenseView, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLicenseView(l))
	}
	render.JSON(w, r, map[string]any{"licenses": out})
}

func (s *Server) handleAdminGrantLicense(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := decodeStrict(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lic, err := s.licenses.Grant(r.Context(), model.Fingerprint(req.HWID), model.ProgramCode(req.ProgramCode))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLicenseView(*lic))
}

func (s *Server) setLicenseActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.licenses.SetActive(r.Context(), id, active); err != nil {
			s.writeError(w, r, err)
			return
		}
		render.JSON(w, r, map[string]any{"ok": true})
	}
}

func (s *Server) handleAdminDeleteLicense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.licenses.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"ok": true})
}

// --- Activation requests ---

func (s *Server) handleAdminListRequests(w http.ResponseWriter, r *http.Request) {
	rs, err := s.requests.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]requestView, 0, len(rs))
	for _, req := range rs {
		out = append(out, requestView{
			ID:          req.ID.String(),
			Fingerprint: string(req.Fingerprint),
			ProgramCode: string(req.ProgramCode),
			Note:        req.Note,
			CreatedAt:   req.CreatedAt.Format(time.RFC3339),
		})
	}
	render.JSON(w, r, map[string]any{"requests": out})
}

func (s *Server) handleAdminApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lic, err := s.requests.Approve(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLicenseView(*lic))
}

func (s *Server) handleAdminRejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.requests.Reject(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"ok": true})
}

// --- Program catalog ---

type indexProgramRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	File        string `json:"file"`
}

func (s *Server) programViews(ps []model.Program) []programView {
	out := make([]programView, 0, len(ps))
	for _, p := range ps {
		out = append(out, programView{
			ID:          p.ID.String(),
			Name:        p.Name,
			Description: p.Description,
			File:        p.FileName,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// handleAdminListPrograms also reports store files not yet indexed,
// mirroring the admin catalog view.
func (s *Server) handleAdminListPrograms(w http.ResponseWriter, r *http.Request) {
	ps, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	un, err := s.catalog.Unindexed(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"programs": s.programViews(ps), "unindexed": un})
}

func (s *Server) handleAdminIndexProgram(w http.ResponseWriter, r *http.Request) {
	var req indexProgramRequest
	if err := decodeStrict(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.catalog.Index(r.Context(), req.Name, req.Description, req.File)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, s.programViews([]model.Program{*p})[0])
}

func (s *Server) handleAdminDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"ok": true})
}

// --- Users ---

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	us, err := s.auth.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]userView, 0, len(us))
	for _, u := range us {
		out = append(out, userView{
			ID:        u.ID.String(),
			Username:  u.Username,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	render.JSON(w, r, map[string]any{"users": out})
}
