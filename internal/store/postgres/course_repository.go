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

	"github.com/openlms/openlms/internal/course"
	"github.com/openlms/openlms/internal/isolation"
)

var courseColumns = []string{
	"id", "tenant_id", "specialization_id", "instructor_id", "title",
	"description", "status", "credits", "published_at", "created_at", "updated_at",
}

// CourseRepository implements course.Repository backed by Postgres.
type CourseRepository struct {
	d *Dispatcher
}

// NewCourseRepository creates a course repository
func NewCourseRepository(d *Dispatcher) *CourseRepository {
	return &CourseRepository{d: d}
}

func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":                c.ID,
			"specialization_id": c.SpecializationID,
			"instructor_id":     c.InstructorID,
			"title":             c.Title,
			"description":       c.Description,
			"status":            c.Status,
			"credits":           c.Credits,
			"created_at":        c.CreatedAt,
			"updated_at":        c.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "courses",
		Verb:    isolation.VerbFindOne,
		Columns: courseColumns,
		Filter:  isolation.Eq("id", id),
	})
	if err != nil {
		return nil, err
	}

	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, course.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

func (r *CourseRepository) List(ctx context.Context, limit, offset int) ([]*course.Course, error) {
	return r.list(ctx, nil, limit, offset)
}

func (r *CourseRepository) ListBySpecialization(ctx context.Context, specializationID string) ([]*course.Course, error) {
	return r.list(ctx, isolation.Eq("specialization_id", specializationID), 0, 0)
}

func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]*course.Course, error) {
	return r.list(ctx, isolation.Eq("instructor_id", instructorID), 0, 0)
}

func (r *CourseRepository) list(ctx context.Context, filter isolation.Predicate, limit, offset int) ([]*course.Course, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "courses",
		Verb:    isolation.VerbFindMany,
		Columns: courseColumns,
		Filter:  filter,
		OrderBy: []isolation.Order{{Field: "created_at", Desc: true}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbCount,
		Filter: isolation.Eq("status", status),
	})
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	var publishedAt any
	if c.PublishedAt != nil {
		publishedAt = *c.PublishedAt
	}
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", c.ID),
		Data: map[string]any{
			"specialization_id": c.SpecializationID,
			"instructor_id":     c.InstructorID,
			"title":             c.Title,
			"description":       c.Description,
			"status":            c.Status,
			"credits":           c.Credits,
			"published_at":      publishedAt,
			"updated_at":        c.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if n == 0 {
		return course.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n == 0 {
		return course.ErrCourseNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	err := row.Scan(
		&c.ID, &c.TenantID, &c.SpecializationID, &c.InstructorID, &c.Title,
		&c.Description, &c.Status, &c.Credits, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
