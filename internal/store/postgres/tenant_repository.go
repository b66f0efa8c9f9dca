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

	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/tenant"
)

var tenantColumns = []string{"id", "name", "status", "created_at", "updated_at"}

// TenantRepository implements tenant.Repository backed by Postgres.
// Tenants are a global entity; the isolation chain exempts them from
// tenant scoping but still applies soft-delete filtering.
type TenantRepository struct {
	d *Dispatcher
}

// NewTenantRepository creates a tenant repository
func NewTenantRepository(d *Dispatcher) *TenantRepository {
	return &TenantRepository{d: d}
}

func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "tenants",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":         t.ID,
			"name":       t.Name,
			"status":     t.Status,
			"created_at": t.CreatedAt,
			"updated_at": t.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return r.getOne(ctx, isolation.Eq("id", id))
}

func (r *TenantRepository) GetByName(ctx context.Context, name string) (*tenant.Tenant, error) {
	return r.getOne(ctx, isolation.Eq("name", name))
}

func (r *TenantRepository) getOne(ctx context.Context, filter isolation.Predicate) (*tenant.Tenant, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "tenants",
		Verb:    isolation.VerbFindOne,
		Columns: tenantColumns,
		Filter:  filter,
	})
	if err != nil {
		return nil, err
	}

	var t tenant.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &t, nil
}

func (r *TenantRepository) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "tenants",
		Verb:    isolation.VerbFindMany,
		Columns: tenantColumns,
		OrderBy: []isolation.Order{{Field: "created_at"}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, &t)
	}
	return tenants, rows.Err()
}

func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "tenants",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", t.ID),
		Data: map[string]any{
			"name":       t.Name,
			"status":     t.Status,
			"updated_at": t.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if n == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "tenants",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	if n == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}
