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

var enrollmentColumns = []string{"id", "tenant_id", "student_id", "course_id", "enrolled_at"}

// EnrollmentRepository implements student.EnrollmentRepository backed
// by Postgres.
type EnrollmentRepository struct {
	d *Dispatcher
}

// NewEnrollmentRepository creates an enrollment repository
func NewEnrollmentRepository(d *Dispatcher) *EnrollmentRepository {
	return &EnrollmentRepository{d: d}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *student.Enrollment) error {
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "enrollments",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":          e.ID,
			"student_id":  e.StudentID,
			"course_id":   e.CourseID,
			"enrolled_at": e.EnrolledAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) Get(ctx context.Context, studentID, courseID string) (*student.Enrollment, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "enrollments",
		Verb:    isolation.VerbFindOne,
		Columns: enrollmentColumns,
		Filter: isolation.And(
			isolation.Eq("student_id", studentID),
			isolation.Eq("course_id", courseID),
		),
	})
	if err != nil {
		return nil, err
	}

	var e student.Enrollment
	if err := row.Scan(&e.ID, &e.TenantID, &e.StudentID, &e.CourseID, &e.EnrolledAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]*student.Enrollment, error) {
	return r.list(ctx, isolation.Eq("student_id", studentID))
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]*student.Enrollment, error) {
	return r.list(ctx, isolation.Eq("course_id", courseID))
}

func (r *EnrollmentRepository) list(ctx context.Context, filter isolation.Predicate) ([]*student.Enrollment, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "enrollments",
		Verb:    isolation.VerbFindMany,
		Columns: enrollmentColumns,
		Filter:  filter,
		OrderBy: []isolation.Order{{Field: "enrolled_at", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*student.Enrollment
	for rows.Next() {
		var e student.Enrollment
		if err := rows.Scan(&e.ID, &e.TenantID, &e.StudentID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}

func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity: "enrollments",
		Verb:   isolation.VerbCount,
		Filter: isolation.Eq("course_id", courseID),
	})
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return n, nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, courseID string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "enrollments",
		Verb:   isolation.VerbDelete,
		Filter: isolation.And(
			isolation.Eq("student_id", studentID),
			isolation.Eq("course_id", courseID),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if n == 0 {
		return student.ErrNotEnrolled
	}
	return nil
}
