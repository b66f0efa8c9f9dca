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

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlms/openlms/internal/instructor"
	"github.com/openlms/openlms/internal/isolation"
)

var instructorColumns = []string{"id", "tenant_id", "user_id", "email", "full_name", "title", "bio", "created_at", "updated_at"}

// InstructorRepository implements instructor.Repository backed by Postgres.
type InstructorRepository struct {
	d *Dispatcher
}

// NewInstructorRepository creates an instructor repository
func NewInstructorRepository(d *Dispatcher) *InstructorRepository {
	return &InstructorRepository{d: d}
}

func (r *InstructorRepository) Create(ctx context.Context, i *instructor.Instructor) error {
	var userID any
	if i.UserID != "" {
		userID = i.UserID
	}
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "instructors",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":         i.ID,
			"user_id":    userID,
			"email":      i.Email,
			"full_name":  i.FullName,
			"title":      i.Title,
			"bio":        i.Bio,
			"created_at": i.CreatedAt,
			"updated_at": i.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create instructor: %w", err)
	}
	return nil
}

func (r *InstructorRepository) GetByID(ctx context.Context, id string) (*instructor.Instructor, error) {
	return r.getOne(ctx, isolation.Eq("id", id))
}

func (r *InstructorRepository) GetByEmail(ctx context.Context, email string) (*instructor.Instructor, error) {
	return r.getOne(ctx, isolation.Eq("email", email))
}

func (r *InstructorRepository) getOne(ctx context.Context, filter isolation.Predicate) (*instructor.Instructor, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "instructors",
		Verb:    isolation.VerbFindOne,
		Columns: instructorColumns,
		Filter:  filter,
	})
	if err != nil {
		return nil, err
	}

	i, err := scanInstructor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, instructor.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	return i, nil
}

func (r *InstructorRepository) List(ctx context.Context, limit, offset int) ([]*instructor.Instructor, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "instructors",
		Verb:    isolation.VerbFindMany,
		Columns: instructorColumns,
		OrderBy: []isolation.Order{{Field: "full_name"}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*instructor.Instructor
	for rows.Next() {
		i, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instructor: %w", err)
		}
		instructors = append(instructors, i)
	}
	return instructors, rows.Err()
}

func (r *InstructorRepository) Update(ctx context.Context, i *instructor.Instructor) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "instructors",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", i.ID),
		Data: map[string]any{
			"full_name":  i.FullName,
			"title":      i.Title,
			"bio":        i.Bio,
			"updated_at": i.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update instructor: %w", err)
	}
	if n == 0 {
		return instructor.ErrNotFound
	}
	return nil
}

func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "instructors",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete instructor: %w", err)
	}
	if n == 0 {
		return instructor.ErrNotFound
	}
	return nil
}

func scanInstructor(row pgx.Row) (*instructor.Instructor, error) {
	var i instructor.Instructor
	var userID *string
	err := row.Scan(&i.ID, &i.TenantID, &userID, &i.Email, &i.FullName, &i.Title, &i.Bio, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		i.UserID = *userID
	}
	return &i, nil
}
