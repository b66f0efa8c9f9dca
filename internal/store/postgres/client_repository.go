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

	"github.com/jackc/pgx/v5"

	"github.com/openlms/openlms/internal/client"
	"github.com/openlms/openlms/internal/isolation"
)

var clientColumns = []string{"id", "name", "contact_email", "phone", "status", "created_at", "updated_at"}

// ClientRepository implements client.Repository backed by Postgres.
type ClientRepository struct {
	d *Dispatcher
}

// NewClientRepository creates a client repository
func NewClientRepository(d *Dispatcher) *ClientRepository {
	return &ClientRepository{d: d}
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "clients",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":            c.ID,
			"name":          c.Name,
			"contact_email": c.ContactEmail,
			"phone":         c.Phone,
			"status":        c.Status,
			"created_at":    c.CreatedAt,
			"updated_at":    c.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	return r.getOne(ctx, isolation.Eq("id", id))
}

func (r *ClientRepository) GetByName(ctx context.Context, name string) (*client.Client, error) {
	return r.getOne(ctx, isolation.Eq("name", name))
}

func (r *ClientRepository) getOne(ctx context.Context, filter isolation.Predicate) (*client.Client, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "clients",
		Verb:    isolation.VerbFindOne,
		Columns: clientColumns,
		Filter:  filter,
	})
	if err != nil {
		return nil, err
	}

	var c client.Client
	if err := scanClient(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*client.Client, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "clients",
		Verb:    isolation.VerbFindMany,
		Columns: clientColumns,
		OrderBy: []isolation.Order{{Field: "created_at"}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client
	for rows.Next() {
		var c client.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "clients",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", c.ID),
		Data: map[string]any{
			"name":          c.Name,
			"contact_email": c.ContactEmail,
			"phone":         c.Phone,
			"status":        c.Status,
			"updated_at":    c.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if n == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "clients",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if n == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row, c *client.Client) error {
	return row.Scan(&c.ID, &c.Name, &c.ContactEmail, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}
