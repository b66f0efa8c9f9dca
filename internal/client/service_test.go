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

package client

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

func (m *mockRepo) Create(ctx context.Context, c *Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Client), args.Error(1)
}

func (m *mockRepo) GetByName(ctx context.Context, name string) (*Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Client), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Client, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Client), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, c *Client) error {
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

func TestCreateClient(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByName", ctx, "Acme University").Return(nil, ErrClientNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*client.Client")).Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeClientCreated
	})).Return()

	c, err := svc.CreateClient(ctx, "Acme University", "admissions@acme.edu", "+1-555-0100")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme University", c.Name)
	assert.Equal(t, StatusActive, c.Status)

	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

func TestCreateClientDuplicateName(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByName", ctx, "Acme University").Return(&Client{ID: "c-1"}, nil)

	_, err := svc.CreateClient(ctx, "Acme University", "admissions@acme.edu", "")
	assert.ErrorIs(t, err, ErrClientExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateClientMissingFields(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, "", "admissions@acme.edu", "")
	assert.Error(t, err)

	_, err = svc.CreateClient(ctx, "Acme University", "", "")
	assert.Error(t, err)
}

func TestUpdateClientPartial(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	existing := &Client{
		ID:           "c-1",
		Name:         "Acme University",
		ContactEmail: "admissions@acme.edu",
		Status:       StatusActive,
	}
	repo.On("GetByID", ctx, "c-1").Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *Client) bool {
		return c.Name == "Acme College" && c.ContactEmail == "admissions@acme.edu"
	})).Return(nil)

	updated, err := svc.UpdateClient(ctx, "c-1", "Acme College", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme College", updated.Name)
	repo.AssertExpectations(t)
}

func TestDeleteClientAudited(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "c-1").Return(&Client{ID: "c-1", Name: "Acme University"}, nil)
	repo.On("Delete", ctx, "c-1").Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeRecordDeleted
	})).Return()

	err := svc.DeleteClient(ctx, "c-1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

func TestDeleteClientNotFound(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, ErrClientNotFound)

	err := svc.DeleteClient(ctx, "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
