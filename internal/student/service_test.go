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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/course"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, st *Student) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Student), args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Student), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Student, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Student), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, st *Student) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockEnrollments struct {
	mock.Mock
}

func (m *mockEnrollments) Create(ctx context.Context, e *Enrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockEnrollments) Get(ctx context.Context, studentID, courseID string) (*Enrollment, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *mockEnrollments) ListByStudent(ctx context.Context, studentID string) ([]*Enrollment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Enrollment), args.Error(1)
}

func (m *mockEnrollments) ListByCourse(ctx context.Context, courseID string) ([]*Enrollment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Enrollment), args.Error(1)
}

func (m *mockEnrollments) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollments) Delete(ctx context.Context, studentID, courseID string) error {
	args := m.Called(ctx, studentID, courseID)
	return args.Error(0)
}

type mockCourses struct {
	mock.Mock
}

func (m *mockCourses) Create(ctx context.Context, c *course.Course) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCourses) GetByID(ctx context.Context, id string) (*course.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*course.Course), args.Error(1)
}

func (m *mockCourses) List(ctx context.Context, limit, offset int) ([]*course.Course, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*course.Course), args.Error(1)
}

func (m *mockCourses) ListBySpecialization(ctx context.Context, specializationID string) ([]*course.Course, error) {
	args := m.Called(ctx, specializationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*course.Course), args.Error(1)
}

func (m *mockCourses) ListByInstructor(ctx context.Context, instructorID string) ([]*course.Course, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*course.Course), args.Error(1)
}

func (m *mockCourses) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCourses) Update(ctx context.Context, c *course.Course) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCourses) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func newService() (*Service, *mockRepo, *mockEnrollments, *mockCourses, *mockAudit) {
	repo := &mockRepo{}
	enrollments := &mockEnrollments{}
	courses := &mockCourses{}
	auditLogger := &mockAudit{}
	return NewService(repo, enrollments, courses, auditLogger), repo, enrollments, courses, auditLogger
}

func TestCreateStudent(t *testing.T) {
	svc, repo, _, _, _ := newService()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "amy@acme.edu").Return(nil, ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(st *Student) bool {
		return st.Email == "amy@acme.edu" && st.ID != ""
	})).Return(nil)

	st, err := svc.Create(ctx, "Amy@acme.edu", "Amy Pond")
	require.NoError(t, err)
	assert.Equal(t, "amy@acme.edu", st.Email)
	repo.AssertExpectations(t)
}

func TestCreateStudentDuplicate(t *testing.T) {
	svc, repo, _, _, _ := newService()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "amy@acme.edu").Return(&Student{ID: "s-1"}, nil)

	_, err := svc.Create(ctx, "amy@acme.edu", "Amy Pond")
	assert.ErrorIs(t, err, ErrExists)
}

func TestEnroll(t *testing.T) {
	svc, repo, enrollments, courses, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "s-1").Return(&Student{ID: "s-1"}, nil)
	courses.On("GetByID", ctx, "c-1").Return(&course.Course{ID: "c-1", Status: course.StatusPublished}, nil)
	enrollments.On("Get", ctx, "s-1", "c-1").Return(nil, ErrNotEnrolled)
	enrollments.On("Create", ctx, mock.MatchedBy(func(e *Enrollment) bool {
		return e.StudentID == "s-1" && e.CourseID == "c-1"
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeStudentEnrolled
	})).Return()

	e, err := svc.Enroll(ctx, "s-1", "c-1")
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	enrollments.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	svc, repo, _, courses, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "s-1").Return(&Student{ID: "s-1"}, nil)
	courses.On("GetByID", ctx, "c-1").Return(&course.Course{ID: "c-1", Status: course.StatusDraft}, nil)

	_, err := svc.Enroll(ctx, "s-1", "c-1")
	assert.Error(t, err)
}

func TestEnrollTwiceRejected(t *testing.T) {
	svc, repo, enrollments, courses, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "s-1").Return(&Student{ID: "s-1"}, nil)
	courses.On("GetByID", ctx, "c-1").Return(&course.Course{ID: "c-1", Status: course.StatusPublished}, nil)
	enrollments.On("Get", ctx, "s-1", "c-1").Return(&Enrollment{ID: "e-1"}, nil)

	_, err := svc.Enroll(ctx, "s-1", "c-1")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	enrollments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUnenroll(t *testing.T) {
	svc, _, enrollments, _, auditLogger := newService()
	ctx := context.Background()

	enrollments.On("Get", ctx, "s-1", "c-1").Return(&Enrollment{ID: "e-1"}, nil)
	enrollments.On("Delete", ctx, "s-1", "c-1").Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeStudentUnenrolled
	})).Return()

	require.NoError(t, svc.Unenroll(ctx, "s-1", "c-1"))
	enrollments.AssertExpectations(t)
}

func TestUnenrollNotEnrolled(t *testing.T) {
	svc, _, enrollments, _, _ := newService()
	ctx := context.Background()

	enrollments.On("Get", ctx, "s-1", "c-1").Return(nil, ErrNotEnrolled)

	err := svc.Unenroll(ctx, "s-1", "c-1")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}
