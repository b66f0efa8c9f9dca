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

	"github.com/openlms/openlms/internal/client"
	"github.com/openlms/openlms/internal/observability/logger"
)

// CreateClientRequest represents client creation data
type CreateClientRequest struct {
	Name         string `json:"name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Phone        string `json:"phone"`
}

// CreateClient registers a customer organization
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.clientService.CreateClient(r.Context(), req.Name, req.ContactEmail, req.Phone)
	if err != nil {
		if errors.Is(err, client.ErrClientExists) {
			respondError(w, http.StatusConflict, "client already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create client", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

// GetClient retrieves a client
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.clientService.GetClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ListClients lists customer organizations
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	clients, err := h.clientService.ListClients(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list clients", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

// UpdateClientRequest represents client update data
type UpdateClientRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
}

// UpdateClient changes client contact details
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req UpdateClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.clientService.UpdateClient(r.Context(), chi.URLParam(r, "clientID"), req.Name, req.ContactEmail, req.Phone)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// DeleteClient soft-deletes a client
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.clientService.DeleteClient(r.Context(), chi.URLParam(r, "clientID")); err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "client deleted"})
}
