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

	"github.com/openlms/openlms/internal/course"
	"github.com/openlms/openlms/internal/observability/logger"
	"github.com/openlms/openlms/internal/specialization"
)

// CreateSpecializationRequest represents specialization creation data
type CreateSpecializationRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateSpecialization creates a specialization
func (h *Handler) CreateSpecialization(w http.ResponseWriter, r *http.Request) {
	var req CreateSpecializationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sp, err := h.specializationService.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, specialization.ErrExists) {
			respondError(w, http.StatusConflict, "specialization already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create specialization", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create specialization")
		return
	}

	respondJSON(w, http.StatusCreated, sp)
}

// GetSpecialization retrieves a specialization
func (h *Handler) GetSpecialization(w http.ResponseWriter, r *http.Request) {
	sp, err := h.specializationService.Get(r.Context(), chi.URLParam(r, "specializationID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "specialization not found")
		return
	}
	respondJSON(w, http.StatusOK, sp)
}

// ListSpecializations lists specializations
func (h *Handler) ListSpecializations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	specs, err := h.specializationService.List(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list specializations", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list specializations")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"specializations": specs})
}

// UpdateSpecializationRequest represents specialization update data
type UpdateSpecializationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateSpecialization changes a specialization
func (h *Handler) UpdateSpecialization(w http.ResponseWriter, r *http.Request) {
	var req UpdateSpecializationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sp, err := h.specializationService.Update(r.Context(), chi.URLParam(r, "specializationID"), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, specialization.ErrNotFound) {
			respondError(w, http.StatusNotFound, "specialization not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update specialization")
		return
	}
	respondJSON(w, http.StatusOK, sp)
}

// DeleteSpecialization soft-deletes a specialization
func (h *Handler) DeleteSpecialization(w http.ResponseWriter, r *http.Request) {
	if err := h.specializationService.Delete(r.Context(), chi.URLParam(r, "specializationID")); err != nil {
		if errors.Is(err, specialization.ErrNotFound) {
			respondError(w, http.StatusNotFound, "specialization not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete specialization")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "specialization deleted"})
}

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	SpecializationID string `json:"specialization_id" validate:"required"`
	InstructorID     string `json:"instructor_id"`
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	Credits          int    `json:"credits" validate:"gte=0"`
}

// CreateCourse creates a draft course
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.courseService.CreateCourse(r.Context(), req.SpecializationID, req.InstructorID, req.Title, req.Description, req.Credits)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create course", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create course")
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

// GetCourse retrieves a course
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.courseService.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "course not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ListCourses lists courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	courses, err := h.courseService.ListCourses(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list courses", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// ListCoursesBySpecialization lists courses under a specialization
func (h *Handler) ListCoursesBySpecialization(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListBySpecialization(r.Context(), chi.URLParam(r, "specializationID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// ListCoursesByInstructor lists courses taught by an instructor
func (h *Handler) ListCoursesByInstructor(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListByInstructor(r.Context(), chi.URLParam(r, "instructorID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// UpdateCourseRequest represents course update data
type UpdateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Credits     *int   `json:"credits" validate:"omitempty,gte=0"`
}

// UpdateCourse changes course details
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req UpdateCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.courseService.UpdateCourse(r.Context(), chi.URLParam(r, "courseID"), req.Title, req.Description, req.Credits)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, "course not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update course")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// PublishCourse transitions a course to published
func (h *Handler) PublishCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.courseService.Publish(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		switch {
		case errors.Is(err, course.ErrCourseNotFound):
			respondError(w, http.StatusNotFound, "course not found")
		case errors.Is(err, course.ErrAlreadyPublished), errors.Is(err, course.ErrNotPublishable):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to publish course")
		}
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ArchiveCourse retires a course
func (h *Handler) ArchiveCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.courseService.Archive(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, "course not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to archive course")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteCourse soft-deletes a course
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.courseService.DeleteCourse(r.Context(), chi.URLParam(r, "courseID")); err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, "course not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete course")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

// CourseRoster lists a course's enrollments
func (h *Handler) CourseRoster(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.studentService.Roster(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list roster")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"enrollments": enrollments})
}
