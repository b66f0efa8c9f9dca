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

package student

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound        = errors.New("student not found")
	ErrExists          = errors.New("student already exists")
	ErrNotEnrolled     = errors.New("student is not enrolled in course")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in course")
)

// Student is a learner profile within a tenant. It may be linked to a
// login account through UserID.
type Student struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enrollment links a student to a course within the same tenant.
type Enrollment struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Repository defines the interface for student persistence
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	List(ctx context.Context, limit, offset int) ([]*Student, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id string) error
}

// EnrollmentRepository defines the interface for enrollment persistence
type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	Get(ctx context.Context, studentID, courseID string) (*Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*Enrollment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	Delete(ctx context.Context, studentID, courseID string) error
}
