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
	"time"
)

// Domain errors
var (
	ErrNotFound = errors.New("specialization not found")
	ErrExists   = errors.New("specialization already exists")
)

// Specialization is a program of study courses are grouped under.
// Tenant-scoped; the tenant binding is applied by the data layer.
type Specialization struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository defines the interface for specialization persistence
type Repository interface {
	Create(ctx context.Context, s *Specialization) error
	GetByID(ctx context.Context, id string) (*Specialization, error)
	GetByName(ctx context.Context, name string) (*Specialization, error)
	List(ctx context.Context, limit, offset int) ([]*Specialization, error)
	Update(ctx context.Context, s *Specialization) error
	Delete(ctx context.Context, id string) error
}
