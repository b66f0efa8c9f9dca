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

package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/realtime"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *mockRepo) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Notification), args.Error(1)
}

func (m *mockRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockRepo) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int64, error) {
	args := m.Called(ctx, recipientID, readAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockEmail struct {
	mock.Mock
}

func (m *mockEmail) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}

type staticResolver struct {
	recipient *Recipient
	err       error
}

func (r staticResolver) Resolve(context.Context, string) (*Recipient, error) {
	return r.recipient, r.err
}

type noopAudit struct{}

func (noopAudit) Log(context.Context, audit.Event) {}

func TestNotifyPersistsAndPushes(t *testing.T) {
	repo := &mockRepo{}
	hub := realtime.NewHub(4)
	svc := NewService(repo, hub, nil, nil, noopAudit{})

	ctx := isolation.WithTenant(context.Background(), "t-7")
	sub := hub.Subscribe(Topic("t-7"))
	defer sub.Close()

	repo.On("Create", ctx, mock.MatchedBy(func(n *Notification) bool {
		return n.RecipientID == "u-1" && n.Kind == KindEnrollment
	})).Return(nil)

	n, err := svc.Notify(ctx, "u-1", KindEnrollment, "Enrolled", "You are enrolled in CS-501")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)

	select {
	case ev := <-sub.C:
		assert.Equal(t, "notification", ev.Type)
		pushed, ok := ev.Payload.(*Notification)
		require.True(t, ok)
		assert.Equal(t, n.ID, pushed.ID)
	default:
		t.Fatal("expected pushed event")
	}
}

func TestNotifySendsEmail(t *testing.T) {
	repo := &mockRepo{}
	email := &mockEmail{}
	resolver := staticResolver{recipient: &Recipient{Email: "amy@acme.edu", FullName: "Amy Pond"}}
	svc := NewService(repo, nil, email, resolver, noopAudit{})
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	email.On("Send", ctx, "amy@acme.edu", "Amy Pond", "Enrolled", "body").Return(nil)

	_, err := svc.Notify(ctx, "u-1", KindEnrollment, "Enrolled", "body")
	require.NoError(t, err)
	email.AssertExpectations(t)
}

func TestNotifyEmailFailureDoesNotFail(t *testing.T) {
	repo := &mockRepo{}
	email := &mockEmail{}
	resolver := staticResolver{recipient: &Recipient{Email: "amy@acme.edu"}}
	svc := NewService(repo, nil, email, resolver, noopAudit{})
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	email.On("Send", ctx, "amy@acme.edu", "", "Enrolled", "body").Return(errors.New("sendgrid down"))

	_, err := svc.Notify(ctx, "u-1", KindEnrollment, "Enrolled", "body")
	require.NoError(t, err)
}

func TestNotifyPersistFailure(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, nil, nil, noopAudit{})
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Notify(ctx, "u-1", KindSystem, "Maintenance", "body")
	assert.Error(t, err)
}

func TestMarkRead(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, nil, nil, noopAudit{})
	ctx := context.Background()

	repo.On("GetByID", ctx, "n-1").Return(&Notification{ID: "n-1"}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(n *Notification) bool {
		return n.ReadAt != nil
	})).Return(nil)

	n, err := svc.MarkRead(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, n.Read())
	repo.AssertExpectations(t)
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, nil, nil, noopAudit{})
	ctx := context.Background()

	readAt := time.Now().Add(-time.Hour)
	repo.On("GetByID", ctx, "n-1").Return(&Notification{ID: "n-1", ReadAt: &readAt}, nil)

	n, err := svc.MarkRead(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, readAt, *n.ReadAt)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMarkAllRead(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, nil, nil, noopAudit{})
	ctx := context.Background()

	repo.On("MarkAllRead", ctx, "u-1", mock.Anything).Return(int64(3), nil)

	affected, err := svc.MarkAllRead(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	_, err = svc.MarkAllRead(ctx, "")
	assert.Error(t, err)
}

func TestNotifyValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, nil, nil, noopAudit{})
	ctx := context.Background()

	_, err := svc.Notify(ctx, "", KindSystem, "Title", "body")
	assert.Error(t, err)

	_, err = svc.Notify(ctx, "u-1", KindSystem, "", "body")
	assert.Error(t, err)
}
