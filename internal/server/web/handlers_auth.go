package web

import (
	"encoding/json"
	"net/http"

	"github.com/dsmirnov/authkeeper/internal/server/models"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TenantID  *int64 `json:"tenantId,omitempty"`
}

// toUserResponse strips the password hash; it must never appear in a
// response body.
func toUserResponse(u *models.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role.String(),
	}
	if u.TenantID.Valid {
		id := u.TenantID.Int64
		resp.TenantID = &id
	}
	return resp
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	var errs []apiError
	errs = validateName(req.FirstName, req.LastName, errs)
	errs = validateCredentials(req.Email, req.Password, errs)
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	session, err := s.sessions.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "id", session.User.ID)
	s.setTokenCookies(w, session.Tokens)
	writeJSON(w, http.StatusCreated, idResponse{ID: session.User.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	var errs []apiError
	if !validEmail(req.Email) {
		errs = append(errs, apiError{Type: "field", Msg: "email is not valid", Path: "email"})
	}
	if req.Password == "" {
		errs = append(errs, apiError{Type: "field", Msg: "password is required", Path: "password"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	session, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "id", session.User.ID)
	s.setTokenCookies(w, session.Tokens)
	writeJSON(w, http.StatusOK, idResponse{ID: session.User.ID})
}

func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	claims, ok := AccessClaimsFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	id, err := claims.UserID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := RefreshClaimsFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	session, err := s.sessions.Refresh(r.Context(), claims)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "session refreshed", "id", session.User.ID)
	s.setTokenCookies(w, session.Tokens)
	writeJSON(w, http.StatusOK, idResponse{ID: session.User.ID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := RefreshClaimsFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	if err := s.sessions.Logout(r.Context(), claims); err != nil {
		writeServiceError(w, err)
		return
	}

	s.clearTokenCookies(w)
	writeJSON(w, http.StatusOK, struct{}{})
}
