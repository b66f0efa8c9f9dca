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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/openlms/internal/audit"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, c *Course) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Course), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Course, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Course), args.Error(1)
}

func (m *mockRepo) ListBySpecialization(ctx context.Context, specializationID string) ([]*Course, error) {
	args := m.Called(ctx, specializationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Course), args.Error(1)
}

func (m *mockRepo) ListByInstructor(ctx context.Context, instructorID string) ([]*Course, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Course), args.Error(1)
}

func (m *mockRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, c *Course) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func newService() (*Service, *mockRepo, *mockAudit) {
	repo := &mockRepo{}
	auditLogger := &mockAudit{}
	return NewService(repo, auditLogger), repo, auditLogger
}

func TestCreateCourse(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(c *Course) bool {
		return c.Status == StatusDraft && c.SpecializationID == "sp-1"
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeCourseCreated
	})).Return()

	c, err := svc.CreateCourse(ctx, "sp-1", "i-1", "Distributed Systems", "CS-501", 6)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, c.Status)
	assert.NotEmpty(t, c.ID)
	assert.Nil(t, c.PublishedAt)
	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, "sp-1", "i-1", "", "", 3)
	assert.Error(t, err)

	_, err = svc.CreateCourse(ctx, "", "i-1", "Distributed Systems", "", 3)
	assert.Error(t, err)

	_, err = svc.CreateCourse(ctx, "sp-1", "i-1", "Distributed Systems", "", -1)
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "c-1").Return(&Course{ID: "c-1", Status: StatusDraft}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *Course) bool {
		return c.Status == StatusPublished && c.PublishedAt != nil
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeCoursePublished
	})).Return()

	c, err := svc.Publish(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, c.Status)
	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

func TestPublishAlreadyPublished(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "c-1").Return(&Course{ID: "c-1", Status: StatusPublished}, nil)

	_, err := svc.Publish(ctx, "c-1")
	assert.ErrorIs(t, err, ErrAlreadyPublished)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPublishArchivedRejected(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "c-1").Return(&Course{ID: "c-1", Status: StatusArchived}, nil)

	_, err := svc.Publish(ctx, "c-1")
	assert.ErrorIs(t, err, ErrNotPublishable)
}

func TestArchive(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "c-1").Return(&Course{ID: "c-1", Status: StatusPublished}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *Course) bool {
		return c.Status == StatusArchived
	})).Return(nil)

	c, err := svc.Archive(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, c.Status)
}

func TestCountByStatusRejectsUnknown(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CountByStatus(context.Background(), "retired")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteCourseAudited(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "c-1").Return(&Course{ID: "c-1"}, nil)
	repo.On("Delete", ctx, "c-1").Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeRecordDeleted
	})).Return()

	require.NoError(t, svc.DeleteCourse(ctx, "c-1"))
	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}
