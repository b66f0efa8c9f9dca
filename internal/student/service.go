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

package student

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/course"
	"github.com/openlms/openlms/internal/id"
)

// Service provides student and enrollment business logic
type Service struct {
	repo        Repository
	enrollments EnrollmentRepository
	courses     course.Repository
	auditLogger audit.Logger
}

// NewService creates a new student service
func NewService(repo Repository, enrollments EnrollmentRepository, courses course.Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		enrollments: enrollments,
		courses:     courses,
		auditLogger: auditLogger,
	}
}

// Create registers a new student profile
func (s *Service) Create(ctx context.Context, email, fullName string) (*Student, error) {
	if email == "" {
		return nil, fmt.Errorf("student email is required")
	}
	if fullName == "" {
		return nil, fmt.Errorf("student name is required")
	}
	email = strings.ToLower(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, email)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check student email: %w", err)
	}

	now := time.Now()
	st := &Student{
		ID:        id.NewUUIDv7(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return st, nil
}

// Get retrieves a student by ID
func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists students with pagination
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Student, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update changes student profile details
func (s *Service) Update(ctx context.Context, studentID, fullName string) (*Student, error) {
	st, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if fullName != "" {
		st.FullName = fullName
	}
	st.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return st, nil
}

// Delete soft-deletes a student profile
func (s *Service) Delete(ctx context.Context, studentID string) error {
	if _, err := s.repo.GetByID(ctx, studentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		Resource: "student",
		Metadata: map[string]any{"student_id": studentID},
	})
	return nil
}

// Enroll enrolls a student in a published course
func (s *Service) Enroll(ctx context.Context, studentID, courseID string) (*Enrollment, error) {
	if _, err := s.repo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.Status != course.StatusPublished {
		return nil, fmt.Errorf("course %s is not open for enrollment: %w", courseID, course.ErrInvalidStatus)
	}

	if _, err := s.enrollments.Get(ctx, studentID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, ErrNotEnrolled) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	e := &Enrollment{
		ID:         id.NewUUIDv7(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeStudentEnrolled,
		Resource: "enrollment",
		Metadata: map[string]any{"student_id": studentID, "course_id": courseID},
	})
	return e, nil
}

// Unenroll removes a student from a course
func (s *Service) Unenroll(ctx context.Context, studentID, courseID string) error {
	if _, err := s.enrollments.Get(ctx, studentID, courseID); err != nil {
		return err
	}
	if err := s.enrollments.Delete(ctx, studentID, courseID); err != nil {
		return fmt.Errorf("failed to unenroll: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeStudentUnenrolled,
		Resource: "enrollment",
		Metadata: map[string]any{"student_id": studentID, "course_id": courseID},
	})
	return nil
}

// Enrollments lists a student's enrollments
func (s *Service) Enrollments(ctx context.Context, studentID string) ([]*Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

// Roster lists the enrollments for a course
func (s *Service) Roster(ctx context.Context, courseID string) ([]*Enrollment, error) {
	return s.enrollments.ListByCourse(ctx, courseID)
}

// EnrollmentCount reports how many students a course has
func (s *Service) EnrollmentCount(ctx context.Context, courseID string) (int64, error) {
	return s.enrollments.CountByCourse(ctx, courseID)
}
