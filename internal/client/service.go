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

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/id"
)

// Service provides client management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new client service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// CreateClient registers a new customer organization
func (s *Service) CreateClient(ctx context.Context, name, contactEmail, phone string) (*Client, error) {
	if name == "" {
		return nil, fmt.Errorf("client name is required")
	}
	if contactEmail == "" {
		return nil, fmt.Errorf("contact email is required")
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientExists, name)
	} else if !errors.Is(err, ErrClientNotFound) {
		return nil, fmt.Errorf("failed to check client name: %w", err)
	}

	now := time.Now()
	c := &Client{
		ID:           id.NewUUIDv7(),
		Name:         name,
		ContactEmail: contactEmail,
		Phone:        phone,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeClientCreated,
		Resource: "client",
		Metadata: map[string]any{"client_id": c.ID, "name": name},
	})

	return c, nil
}

// GetClient retrieves a client by ID
func (s *Service) GetClient(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

// ListClients lists clients with pagination
func (s *Service) ListClients(ctx context.Context, limit, offset int) ([]*Client, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateClient updates contact details
func (s *Service) UpdateClient(ctx context.Context, clientID, name, contactEmail, phone string) (*Client, error) {
	c, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		c.Name = name
	}
	if contactEmail != "" {
		c.ContactEmail = contactEmail
	}
	if phone != "" {
		c.Phone = phone
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return c, nil
}

// DeleteClient soft-deletes a client
func (s *Service) DeleteClient(ctx context.Context, clientID string) error {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		Resource: "client",
		Metadata: map[string]any{"client_id": clientID},
	})
	return nil
}
