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
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/notification"
)

var notificationColumns = []string{
	"id", "tenant_id", "recipient_id", "kind", "title", "body",
	"read_at", "created_at", "updated_at",
}

// NotificationRepository implements notification.Repository backed by
// Postgres.
type NotificationRepository struct {
	d *Dispatcher
}

// NewNotificationRepository creates a notification repository
func NewNotificationRepository(d *Dispatcher) *NotificationRepository {
	return &NotificationRepository{d: d}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "notifications",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":           n.ID,
			"recipient_id": n.RecipientID,
			"kind":         n.Kind,
			"title":        n.Title,
			"body":         n.Body,
			"created_at":   n.CreatedAt,
			"updated_at":   n.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "notifications",
		Verb:    isolation.VerbFindOne,
		Columns: notificationColumns,
		Filter:  isolation.Eq("id", id),
	})
	if err != nil {
		return nil, err
	}

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*notification.Notification, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "notifications",
		Verb:    isolation.VerbFindMany,
		Columns: notificationColumns,
		Filter:  isolation.Eq("recipient_id", recipientID),
		OrderBy: []isolation.Order{{Field: "created_at", Desc: true}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity: "notifications",
		Verb:   isolation.VerbCount,
		Filter: isolation.And(
			isolation.Eq("recipient_id", recipientID),
			isolation.IsNull("read_at"),
		),
	})
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	var readAt any
	if n.ReadAt != nil {
		readAt = *n.ReadAt
	}
	affected, err := r.d.Exec(ctx, isolation.Command{
		Entity: "notifications",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", n.ID),
		Data: map[string]any{
			"read_at":    readAt,
			"updated_at": n.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if affected == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int64, error) {
	affected, err := r.d.Exec(ctx, isolation.Command{
		Entity: "notifications",
		Verb:   isolation.VerbUpdateMany,
		Filter: isolation.And(
			isolation.Eq("recipient_id", recipientID),
			isolation.IsNull("read_at"),
		),
		Data: map[string]any{
			"read_at":    readAt,
			"updated_at": readAt,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return affected, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.d.Exec(ctx, isolation.Command{
		Entity: "notifications",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if affected == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(
		&n.ID, &n.TenantID, &n.RecipientID, &n.Kind, &n.Title, &n.Body,
		&n.ReadAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
