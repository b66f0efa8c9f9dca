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

package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/openlms/internal/audit"
)

// mockRepo implements Repository for testing
type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, t *Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *mockRepo) GetByName(ctx context.Context, name string) (*Tenant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Tenant), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, t *Tenant) error {
	args := m.Called(ctx, t)
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
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()
	return NewService(repo, auditLogger), repo, auditLogger
}

func TestCreateTenant_Succeeds(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByName", ctx, "Acme School").Return(nil, ErrTenantNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(tn *Tenant) bool {
		return tn.Name == "Acme School" && tn.Status == StatusActive && tn.ID != ""
	})).Return(nil)

	created, err := svc.CreateTenant(ctx, "Acme School")
	require.NoError(t, err)
	assert.Equal(t, "Acme School", created.Name)
	repo.AssertExpectations(t)
	auditLogger.AssertCalled(t, "Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeTenantCreated
	}))
}

func TestCreateTenant_DuplicateName_Rejected(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByName", ctx, "Acme School").Return(&Tenant{ID: "t-1", Name: "Acme School"}, nil)

	_, err := svc.CreateTenant(ctx, "Acme School")
	assert.ErrorIs(t, err, ErrTenantExists)
}

func TestCreateTenant_EmptyName_Rejected(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateTenant(context.Background(), "")
	assert.Error(t, err)
}

func TestGetTenant_EmptyID_Rejected(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.GetTenant(context.Background(), "")
	assert.Error(t, err, "empty tenant ID should fail")
}

func TestSetStatus_InvalidStatus_Rejected(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.SetStatus(context.Background(), "t-1", "suspended")
	assert.Error(t, err)
}

func TestDeleteTenant_AuditsDeletion(t *testing.T) {
	svc, repo, auditLogger := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "t-1").Return(&Tenant{ID: "t-1"}, nil)
	repo.On("Delete", ctx, "t-1").Return(nil)

	require.NoError(t, svc.DeleteTenant(ctx, "t-1"))
	auditLogger.AssertCalled(t, "Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeTenantDeleted && e.TenantID == "t-1"
	}))
}

func TestDeleteTenant_MissingTenant_Propagates(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	repo.On("GetByID", ctx, "nope").Return(nil, ErrTenantNotFound)

	err := svc.DeleteTenant(ctx, "nope")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}
