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
	"github.com/openlms/openlms/internal/specialization"
)

var specializationColumns = []string{"id", "tenant_id", "name", "description", "created_at", "updated_at"}

// SpecializationRepository implements specialization.Repository backed
// by Postgres. Tenant-scoped: the chain stamps tenant_id on writes and
// narrows reads.
type SpecializationRepository struct {
	d *Dispatcher
}

// NewSpecializationRepository creates a specialization repository
func NewSpecializationRepository(d *Dispatcher) *SpecializationRepository {
	return &SpecializationRepository{d: d}
}

func (r *SpecializationRepository) Create(ctx context.Context, sp *specialization.Specialization) error {
	_, err := r.d.Exec(ctx, isolation.Command{
		Entity: "specializations",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":          sp.ID,
			"name":        sp.Name,
			"description": sp.Description,
			"created_at":  sp.CreatedAt,
			"updated_at":  sp.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create specialization: %w", err)
	}
	return nil
}

func (r *SpecializationRepository) GetByID(ctx context.Context, id string) (*specialization.Specialization, error) {
	return r.getOne(ctx, isolation.Eq("id", id))
}

func (r *SpecializationRepository) GetByName(ctx context.Context, name string) (*specialization.Specialization, error) {
	return r.getOne(ctx, isolation.Eq("name", name))
}

func (r *SpecializationRepository) getOne(ctx context.Context, filter isolation.Predicate) (*specialization.Specialization, error) {
	row, err := r.d.QueryRow(ctx, isolation.Command{
		Entity:  "specializations",
		Verb:    isolation.VerbFindOne,
		Columns: specializationColumns,
		Filter:  filter,
	})
	if err != nil {
		return nil, err
	}

	var sp specialization.Specialization
	if err := row.Scan(&sp.ID, &sp.TenantID, &sp.Name, &sp.Description, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, specialization.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get specialization: %w", err)
	}
	return &sp, nil
}

func (r *SpecializationRepository) List(ctx context.Context, limit, offset int) ([]*specialization.Specialization, error) {
	rows, err := r.d.Query(ctx, isolation.Command{
		Entity:  "specializations",
		Verb:    isolation.VerbFindMany,
		Columns: specializationColumns,
		OrderBy: []isolation.Order{{Field: "name"}},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	defer rows.Close()

	var specs []*specialization.Specialization
	for rows.Next() {
		var sp specialization.Specialization
		if err := rows.Scan(&sp.ID, &sp.TenantID, &sp.Name, &sp.Description, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan specialization: %w", err)
		}
		specs = append(specs, &sp)
	}
	return specs, rows.Err()
}

func (r *SpecializationRepository) Update(ctx context.Context, sp *specialization.Specialization) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "specializations",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", sp.ID),
		Data: map[string]any{
			"name":        sp.Name,
			"description": sp.Description,
			"updated_at":  sp.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update specialization: %w", err)
	}
	if n == 0 {
		return specialization.ErrNotFound
	}
	return nil
}

func (r *SpecializationRepository) Delete(ctx context.Context, id string) error {
	n, err := r.d.Exec(ctx, isolation.Command{
		Entity: "specializations",
		Verb:   isolation.VerbDelete,
		Filter: isolation.Eq("id", id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete specialization: %w", err)
	}
	if n == 0 {
		return specialization.ErrNotFound
	}
	return nil
}
