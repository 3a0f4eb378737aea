package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/services"
)

type createUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	TenantID  *int64 `json:"tenantId"`
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	TenantID  *int64 `json:"tenantId"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	var errs []apiError
	errs = validateName(req.FirstName, req.LastName, errs)
	errs = validateCredentials(req.Email, req.Password, errs)
	role, err := models.ParseRole(req.Role)
	if err != nil {
		errs = append(errs, apiError{Type: "field", Msg: "role is not valid", Path: "role"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := s.users.Create(r.Context(), services.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
		TenantID:  req.TenantID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user created", "id", user.ID, "role", user.Role.String())
	writeJSON(w, http.StatusCreated, idResponse{ID: user.ID})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(list))
	for _, u := range list {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid url param")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid url param")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	var errs []apiError
	errs = validateName(req.FirstName, req.LastName, errs)
	role, err := models.ParseRole(req.Role)
	if err != nil {
		errs = append(errs, apiError{Type: "field", Msg: "role is not valid", Path: "role"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	err = s.users.Update(r.Context(), id, services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		TenantID:  req.TenantID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid url param")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user deleted", "id", id)
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}
