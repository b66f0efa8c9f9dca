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
	"time"
)

// Domain errors
var (
	ErrNotFound = errors.New("instructor not found")
	ErrExists   = errors.New("instructor already exists")
)

// Instructor is a teaching staff profile within a tenant. It may be
// linked to a login account through UserID.
type Instructor struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines the interface for instructor persistence
type Repository interface {
	Create(ctx context.Context, i *Instructor) error
	GetByID(ctx context.Context, id string) (*Instructor, error)
	GetByEmail(ctx context.Context, email string) (*Instructor, error)
	List(ctx context.Context, limit, offset int) ([]*Instructor, error)
	Update(ctx context.Context, i *Instructor) error
	Delete(ctx context.Context, id string) error
}
