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

package specialization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/id"
)

// Service provides specialization management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new specialization service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// Create registers a new specialization
func (s *Service) Create(ctx context.Context, name, description string) (*Specialization, error) {
	if name == "" {
		return nil, fmt.Errorf("specialization name is required")
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check specialization name: %w", err)
	}

	now := time.Now()
	sp := &Specialization{
		ID:          id.NewUUIDv7(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to create specialization: %w", err)
	}
	return sp, nil
}

// Get retrieves a specialization by ID
func (s *Service) Get(ctx context.Context, id string) (*Specialization, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists specializations with pagination
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Specialization, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update changes a specialization's name or description
func (s *Service) Update(ctx context.Context, spID, name, description string) (*Specialization, error) {
	sp, err := s.repo.GetByID(ctx, spID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		sp.Name = name
	}
	if description != "" {
		sp.Description = description
	}
	sp.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to update specialization: %w", err)
	}
	return sp, nil
}

// Delete soft-deletes a specialization
func (s *Service) Delete(ctx context.Context, spID string) error {
	if _, err := s.repo.GetByID(ctx, spID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, spID); err != nil {
		return fmt.Errorf("failed to delete specialization: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		Resource: "specialization",
		Metadata: map[string]any{"specialization_id": spID},
	})
	return nil
}
