package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dsmirnov/authkeeper/internal/server/models"
)

type tenantRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type tenantResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func toTenantResponse(t *models.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, Address: t.Address}
}

func validateTenant(req tenantRequest) []apiError {
	var errs []apiError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, apiError{Type: "field", Msg: "name is required", Path: "name"})
	}
	if strings.TrimSpace(req.Address) == "" {
		errs = append(errs, apiError{Type: "field", Msg: "address is required", Path: "address"})
	}
	return errs
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	if errs := validateTenant(req); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	tenant, err := s.tenants.Create(r.Context(), req.Name, req.Address)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "tenant created", "id", tenant.ID)
	writeJSON(w, http.StatusCreated, idResponse{ID: tenant.ID})
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	list, err := s.tenants.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]tenantResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, toTenantResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid url param")
		return
	}

	tenant, err := s.tenants.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenantResponse(tenant))
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid url param")
		return
	}

	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	if errs := validateTenant(req); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if err := s.tenants.Update(r.Context(), id, req.Name, req.Address); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (s *Server) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid url param")
		return
	}

	if err := s.tenants.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "tenant deleted", "id", id)
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}
