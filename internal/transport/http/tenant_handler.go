// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openlms/openlms/internal/observability/logger"
	"github.com/openlms/openlms/internal/tenant"
)

// CreateTenantRequest represents tenant creation data
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateTenant creates a new tenant
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tenantService.CreateTenant(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantExists) {
			respondError(w, http.StatusConflict, "tenant already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create tenant", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create tenant")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// GetTenant retrieves a tenant
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenantService.GetTenant(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "tenant not found")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// ListTenants lists all tenants
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tenants, err := h.tenantService.ListTenants(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list tenants", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

// UpdateTenantRequest represents tenant update data
type UpdateTenantRequest struct {
	Name   string `json:"name"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateTenant renames a tenant or changes its status
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req UpdateTenantRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenantID := chi.URLParam(r, "tenantID")

	var t *tenant.Tenant
	var err error
	if req.Name != "" {
		if t, err = h.tenantService.RenameTenant(r.Context(), tenantID, req.Name); err != nil {
			respondTenantError(w, err)
			return
		}
	}
	if req.Status != "" {
		if t, err = h.tenantService.SetStatus(r.Context(), tenantID, req.Status); err != nil {
			respondTenantError(w, err)
			return
		}
	}
	if t == nil {
		respondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// DeleteTenant soft-deletes a tenant
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.tenantService.DeleteTenant(r.Context(), chi.URLParam(r, "tenantID")); err != nil {
		respondTenantError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "tenant deleted"})
}

func respondTenantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		respondError(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, tenant.ErrTenantExists):
		respondError(w, http.StatusConflict, "tenant already exists")
	default:
		respondError(w, http.StatusInternalServerError, "tenant operation failed")
	}
}
