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

package course

import (
	"context"
	"fmt"
	"time"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/id"
)

// Service provides course management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new course service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// CreateCourse creates a new draft course
func (s *Service) CreateCourse(ctx context.Context, specializationID, instructorID, title, description string, credits int) (*Course, error) {
	if title == "" {
		return nil, fmt.Errorf("course title is required")
	}
	if specializationID == "" {
		return nil, fmt.Errorf("specialization is required")
	}
	if credits < 0 {
		return nil, fmt.Errorf("credits must be non-negative")
	}

	now := time.Now()
	c := &Course{
		ID:               id.NewUUIDv7(),
		SpecializationID: specializationID,
		InstructorID:     instructorID,
		Title:            title,
		Description:      description,
		Status:           StatusDraft,
		Credits:          credits,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCourseCreated,
		Resource: "course",
		Metadata: map[string]any{"course_id": c.ID, "title": title},
	})
	return c, nil
}

// GetCourse retrieves a course by ID
func (s *Service) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	return s.repo.GetByID(ctx, courseID)
}

// ListCourses lists courses with pagination
func (s *Service) ListCourses(ctx context.Context, limit, offset int) ([]*Course, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListBySpecialization lists courses grouped under a specialization
func (s *Service) ListBySpecialization(ctx context.Context, specializationID string) ([]*Course, error) {
	return s.repo.ListBySpecialization(ctx, specializationID)
}

// ListByInstructor lists courses taught by an instructor
func (s *Service) ListByInstructor(ctx context.Context, instructorID string) ([]*Course, error) {
	return s.repo.ListByInstructor(ctx, instructorID)
}

// UpdateCourse changes course details. Lifecycle transitions go through
// Publish and Archive, not here.
func (s *Service) UpdateCourse(ctx context.Context, courseID, title, description string, credits *int) (*Course, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		c.Title = title
	}
	if description != "" {
		c.Description = description
	}
	if credits != nil {
		if *credits < 0 {
			return nil, fmt.Errorf("credits must be non-negative")
		}
		c.Credits = *credits
	}
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return c, nil
}

// Publish transitions a draft course to published
func (s *Service) Publish(ctx context.Context, courseID string) (*Course, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case StatusPublished:
		return nil, ErrAlreadyPublished
	case StatusArchived:
		return nil, ErrNotPublishable
	}

	now := time.Now()
	c.Status = StatusPublished
	c.PublishedAt = &now
	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to publish course: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCoursePublished,
		Resource: "course",
		Metadata: map[string]any{"course_id": c.ID},
	})
	return c, nil
}

// Archive retires a course. Archived courses stay readable but accept
// no new enrollments.
func (s *Service) Archive(ctx context.Context, courseID string) (*Course, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	c.Status = StatusArchived
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to archive course: %w", err)
	}
	return c, nil
}

// CountByStatus reports how many courses are in a given lifecycle state
func (s *Service) CountByStatus(ctx context.Context, status string) (int64, error) {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived:
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	return s.repo.CountByStatus(ctx, status)
}

// DeleteCourse soft-deletes a course
func (s *Service) DeleteCourse(ctx context.Context, courseID string) error {
	if _, err := s.repo.GetByID(ctx, courseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		Resource: "course",
		Metadata: map[string]any{"course_id": courseID},
	})
	return nil
}
