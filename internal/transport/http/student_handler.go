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
	"github.com/openlms/openlms/internal/student"
)

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
}

// CreateStudent creates a student
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.studentService.Create(r.Context(), req.Email, req.FullName)
	if err != nil {
		if errors.Is(err, student.ErrExists) {
			respondError(w, http.StatusConflict, "student already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create student", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create student")
		return
	}

	respondJSON(w, http.StatusCreated, st)
}

// GetStudent retrieves a student
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := h.studentService.Get(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// ListStudents lists students
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	students, err := h.studentService.List(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list students", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list students")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"students": students})
}

// UpdateStudentRequest represents student update data
type UpdateStudentRequest struct {
	FullName string `json:"full_name" validate:"required"`
}

// UpdateStudent changes student details
func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req UpdateStudentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.studentService.Update(r.Context(), chi.URLParam(r, "studentID"), req.FullName)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			respondError(w, http.StatusNotFound, "student not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update student")
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// DeleteStudent soft-deletes a student
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Delete(r.Context(), chi.URLParam(r, "studentID")); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			respondError(w, http.StatusNotFound, "student not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete student")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "student deleted"})
}

// EnrollRequest represents enrollment data
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// Enroll enrolls a student into a published course
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enrollment, err := h.studentService.Enroll(r.Context(), chi.URLParam(r, "studentID"), req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, student.ErrNotFound), errors.Is(err, course.ErrCourseNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, student.ErrAlreadyEnrolled):
			respondError(w, http.StatusConflict, "student already enrolled")
		case errors.Is(err, course.ErrInvalidStatus):
			respondError(w, http.StatusConflict, "course is not open for enrollment")
		default:
			slog.ErrorContext(r.Context(), "failed to enroll student", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to enroll student")
		}
		return
	}

	respondJSON(w, http.StatusCreated, enrollment)
}

// Unenroll removes a student from a course
func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	err := h.studentService.Unenroll(r.Context(), chi.URLParam(r, "studentID"), chi.URLParam(r, "courseID"))
	if err != nil {
		if errors.Is(err, student.ErrNotEnrolled) {
			respondError(w, http.StatusNotFound, "enrollment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to unenroll student")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "student unenrolled"})
}

// ListEnrollments lists a student's enrollments
func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.studentService.Enrollments(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list enrollments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"enrollments": enrollments})
}
