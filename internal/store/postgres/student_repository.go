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

	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/student"
)

var studentColumns = []string{"id", "tenant_id", "user_id", "email", "full_name", "created_at", "updated_at"}

// StudentRepository implements student.Repository backed by Postgres.
type StudentRepository struct {
	d *Dispatcher
}

// NewStudentRepository creates a student repository
func NewStudentRepository(d *Dispatcher) *StudentRepository {
	return &StudentRepository{d: d}
}

func (r *StudentRepository) Create(ctx context.Context, st *student.Student) error {
	var userID any
	if st.UserID != "" {
		userID = st.UserID
	}
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":         st.ID,
			"user_id":    userID,
			"email":      st.Email,
			"full_name":  st.FullName,
			"created_at": st.CreatedAt,
			"updated_at": st.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	return r.getOne(ctx, isolation.Eq("id", id))
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*student.Student, error) {
	return r.getOne(ctx, isolation.Eq("email", email))
}

func (r *StudentRepository) getOne(ctx context.Context, filter isolation.Predicate) (*student.Student, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "students",
		Verb:    isolation.VerbFindOne,
		Columns: studentColumns,
		Filter:  filter,
	})
	if err != nil {
		return nil, err
	}

	st, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return st, nil
}

func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]*student.Student, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "students",
		Verb:    isolation.VerbFindMany,
		Columns: studentColumns,
		OrderBy: []isolation.Order{{Field: "full_name"}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (r *StudentRepository) Update(ctx context.Context, st *student.Student) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", st.ID),
		Data: map[string]any{
			"full_name":  st.FullName,
			"updated_at": st.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var st student.Student
	var userID *string
	err := row.Scan(&st.ID, &st.TenantID, &userID, &st.Email, &st.FullName, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		st.UserID = *userID
	}
	return &st, nil
}
