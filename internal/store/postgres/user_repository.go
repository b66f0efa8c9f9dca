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

	"github.com/openlms/openlms/internal/identity"
	"github.com/openlms/openlms/internal/isolation"
)

var userColumns = []string{
	"id", "tenant_id", "email", "full_name", "role", "password_hash",
	"failed_login_attempts", "locked_until", "created_at", "updated_at",
}

// UserRepository implements identity.Repository backed by Postgres.
// Accounts are global so a sign-in can resolve the user before any
// tenant scope exists; the soft-delete filter still applies.
type UserRepository struct {
	d *Dispatcher
}

// NewUserRepository creates a user repository
func NewUserRepository(d *Dispatcher) *UserRepository {
	return &UserRepository{d: d}
}

func (r *UserRepository) Create(ctx context.Context, u *identity.User) error {
	var tenantID any
	if u.TenantID != "" {
		tenantID = u.TenantID
	}
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "users",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":                    u.ID,
			"tenant_id":             tenantID,
			"email":                 u.Email,
			"full_name":             u.FullName,
			"role":                  u.Role,
			"password_hash":         u.PasswordHash,
			"failed_login_attempts": u.FailedLoginAttempts,
			"created_at":            u.CreatedAt,
			"updated_at":            u.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*identity.User, error) {
	return r.getOne(ctx, isolation.Eq("id", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.getOne(ctx, isolation.Eq("email", email))
}

func (r *UserRepository) getOne(ctx context.Context, filter isolation.Predicate) (*identity.User, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "users",
		Verb:    isolation.VerbFindOne,
		Columns: userColumns,
		Filter:  filter,
	})
	if err != nil {
		return nil, err
	}

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*identity.User, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "users",
		Verb:    isolation.VerbFindMany,
		Columns: userColumns,
		OrderBy: []isolation.Order{{Field: "created_at"}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*identity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *identity.User) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "users",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", u.ID),
		Data: map[string]any{
			"full_name":  u.FullName,
			"updated_at": u.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLockout(ctx context.Context, userID string, failedAttempts int, lockedUntil *time.Time) error {
	var until any
	if lockedUntil != nil {
		until = *lockedUntil
	}
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "users",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", userID),
		Data: map[string]any{
			"failed_login_attempts": failedAttempts,
			"locked_until":          until,
			"updated_at":            time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update lockout: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "users",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", userID),
		Data: map[string]any{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "users",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*identity.User, error) {
	var u identity.User
	var tenantID *string
	err := row.Scan(
		&u.ID, &tenantID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tenantID != nil {
		u.TenantID = *tenantID
	}
	return &u, nil
}
