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
	"errors"
	"time"
)

// Domain errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrInvalidStatus    = errors.New("invalid course status")
	ErrNotPublishable   = errors.New("course cannot be published from its current status")
	ErrAlreadyPublished = errors.New("course is already published")
)

// Course lifecycle states
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Course represents a course offered within a tenant. Every course
// belongs to a specialization and is taught by an instructor.
type Course struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenant_id"`
	SpecializationID string     `json:"specialization_id"`
	InstructorID     string     `json:"instructor_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Credits          int        `json:"credits"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Repository defines the interface for course persistence
type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context, limit, offset int) ([]*Course, error)
	ListBySpecialization(ctx context.Context, specializationID string) ([]*Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*Course, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id string) error
}
