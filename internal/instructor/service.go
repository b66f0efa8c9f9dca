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

package instructor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/id"
)

// Service provides instructor management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new instructor service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// Create registers a new instructor profile
func (s *Service) Create(ctx context.Context, email, fullName, title, bio string) (*Instructor, error) {
	if email == "" {
		return nil, fmt.Errorf("instructor email is required")
	}
	if fullName == "" {
		return nil, fmt.Errorf("instructor name is required")
	}
	email = strings.ToLower(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, email)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check instructor email: %w", err)
	}

	now := time.Now()
	i := &Instructor{
		ID:        id.NewUUIDv7(),
		Email:     email,
		FullName:  fullName,
		Title:     title,
		Bio:       bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to create instructor: %w", err)
	}
	return i, nil
}

// Get retrieves an instructor by ID
func (s *Service) Get(ctx context.Context, id string) (*Instructor, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists instructors with pagination
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Instructor, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update changes instructor profile details
func (s *Service) Update(ctx context.Context, instructorID, fullName, title, bio string) (*Instructor, error) {
	i, err := s.repo.GetByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if fullName != "" {
		i.FullName = fullName
	}
	if title != "" {
		i.Title = title
	}
	if bio != "" {
		i.Bio = bio
	}
	i.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to update instructor: %w", err)
	}
	return i, nil
}

// Delete soft-deletes an instructor profile
func (s *Service) Delete(ctx context.Context, instructorID string) error {
	if _, err := s.repo.GetByID(ctx, instructorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, instructorID); err != nil {
		return fmt.Errorf("failed to delete instructor: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		Resource: "instructor",
		Metadata: map[string]any{"instructor_id": instructorID},
	})
	return nil
}
