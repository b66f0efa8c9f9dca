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
	"fmt"
	"log/slog"
	"time"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/id"
	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/realtime"
)

// Recipient resolves a recipient ID to a deliverable address. Returning
// an error skips email delivery for that notification.
type Recipient struct {
	Email    string
	FullName string
}

// RecipientResolver looks up delivery details for a recipient
type RecipientResolver interface {
	Resolve(ctx context.Context, recipientID string) (*Recipient, error)
}

// Service provides notification business logic. Persistence is the
// source of truth; websocket push and email are best-effort fanout.
type Service struct {
	repo        Repository
	hub         *realtime.Hub
	email       EmailSender
	resolver    RecipientResolver
	auditLogger audit.Logger
}

// NewService creates a notification service. hub, email and resolver
// are optional; nil disables the corresponding delivery channel.
func NewService(repo Repository, hub *realtime.Hub, email EmailSender, resolver RecipientResolver, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		hub:         hub,
		email:       email,
		resolver:    resolver,
		auditLogger: auditLogger,
	}
}

// Topic returns the hub topic notifications for a tenant are published on
func Topic(tenantID string) string {
	return "tenant:" + tenantID
}

// Notify creates a notification and fans it out
func (s *Service) Notify(ctx context.Context, recipientID, kind, title, body string) (*Notification, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := time.Now()
	n := &Notification{
		ID:          id.NewUUIDv7(),
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish(realtime.Event{
			Topic:   Topic(isolation.TenantID(ctx)),
			Type:    "notification",
			Payload: n,
		})
	}

	if s.email != nil && s.resolver != nil {
		if r, err := s.resolver.Resolve(ctx, recipientID); err == nil {
			if err := s.email.Send(ctx, r.Email, r.FullName, title, body); err != nil {
				slog.WarnContext(ctx, "notification email delivery failed",
					slog.String("notification_id", n.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeNotificationSent,
		Resource: "notification",
		Metadata: map[string]any{"notification_id": n.ID, "kind": kind},
	})
	return n, nil
}

// Get retrieves a notification by ID
func (s *Service) Get(ctx context.Context, notificationID string) (*Notification, error) {
	return s.repo.GetByID(ctx, notificationID)
}

// ListForRecipient lists a recipient's notifications, newest first
func (s *Service) ListForRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}

// UnreadCount reports the recipient's unread notifications
func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// MarkRead marks a notification as read
func (s *Service) MarkRead(ctx context.Context, notificationID string) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.Read() {
		return n, nil
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n, nil
}

// MarkAllRead marks every unread notification for a recipient as read
// and returns how many were affected.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, fmt.Errorf("recipient id is required")
	}
	affected, err := s.repo.MarkAllRead(ctx, recipientID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return affected, nil
}

// Delete soft-deletes a notification
func (s *Service) Delete(ctx context.Context, notificationID string) error {
	if _, err := s.repo.GetByID(ctx, notificationID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
