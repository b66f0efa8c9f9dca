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
	"time"
)

// Domain errors
var (
	ErrNotFound = errors.New("notification not found")
)

// Notification kinds
const (
	KindEnrollment   = "enrollment"
	KindCourseUpdate = "course_update"
	KindAnnouncement = "announcement"
	KindSystem       = "system"
)

// Notification is a message addressed to a user within a tenant.
type Notification struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	RecipientID string     `json:"recipient_id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Read reports whether the notification has been read
func (n *Notification) Read() bool { return n.ReadAt != nil }

// Repository defines the interface for notification persistence
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	Update(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}
