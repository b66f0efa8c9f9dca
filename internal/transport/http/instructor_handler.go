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

	"github.com/openlms/openlms/internal/instructor"
	"github.com/openlms/openlms/internal/observability/logger"
)

// CreateInstructorRequest represents instructor creation data
type CreateInstructorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
}

// CreateInstructor creates an instructor
func (h *Handler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	var req CreateInstructorRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inst, err := h.instructorService.Create(r.Context(), req.Email, req.FullName, req.Title, req.Bio)
	if err != nil {
		if errors.Is(err, instructor.ErrExists) {
			respondError(w, http.StatusConflict, "instructor already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create instructor", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create instructor")
		return
	}

	respondJSON(w, http.StatusCreated, inst)
}

// GetInstructor retrieves an instructor
func (h *Handler) GetInstructor(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instructorService.Get(r.Context(), chi.URLParam(r, "instructorID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "instructor not found")
		return
	}
	respondJSON(w, http.StatusOK, inst)
}

// ListInstructors lists instructors
func (h *Handler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	instructors, err := h.instructorService.List(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list instructors", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list instructors")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"instructors": instructors})
}

// UpdateInstructorRequest represents instructor update data
type UpdateInstructorRequest struct {
	FullName string `json:"full_name"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
}

// UpdateInstructor changes instructor details
func (h *Handler) UpdateInstructor(w http.ResponseWriter, r *http.Request) {
	var req UpdateInstructorRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inst, err := h.instructorService.Update(r.Context(), chi.URLParam(r, "instructorID"), req.FullName, req.Title, req.Bio)
	if err != nil {
		if errors.Is(err, instructor.ErrNotFound) {
			respondError(w, http.StatusNotFound, "instructor not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update instructor")
		return
	}
	respondJSON(w, http.StatusOK, inst)
}

// DeleteInstructor soft-deletes an instructor
func (h *Handler) DeleteInstructor(w http.ResponseWriter, r *http.Request) {
	if err := h.instructorService.Delete(r.Context(), chi.URLParam(r, "instructorID")); err != nil {
		if errors.Is(err, instructor.ErrNotFound) {
			respondError(w, http.StatusNotFound, "instructor not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete instructor")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "instructor deleted"})
}
