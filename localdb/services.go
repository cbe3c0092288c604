// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const servicesTable = "services"

const serviceColumns = `id, name, duration, description, price, sale_price, sync, is_deleted, created_at, updated_at`

// ServiceRepo persists the service catalog.
type ServiceRepo struct {
	store *Store
}

func NewServiceRepo(store *Store) *ServiceRepo {
	return &ServiceRepo{store: store}
}

func scanService(rows *sql.Rows) (model.Service, error) {
	var s model.Service
	err := rows.Scan(&s.ID, &s.Name, &s.Duration, &s.Description, &s.Price,
		&s.SalePrice, &s.Sync, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *ServiceRepo) query(ctx context.Context, op, query string, args ...any) ([]model.Service, error) {
	return WithTableCheck(ctx, r.store, servicesTable, func(ctx context.Context) ([]model.Service, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, servicesTable, err)
		}
		defer rows.Close()

		services := []model.Service{}
		for rows.Next() {
			s, err := scanService(rows)
			if err != nil {
				return nil, storeErr(op, servicesTable, err)
			}
			services = append(services, s)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, servicesTable, err)
		}
		return services, nil
	})
}

func (r *ServiceRepo) GetAll(ctx context.Context) ([]model.Service, error) {
	return r.query(ctx, "getAll",
		`SELECT `+serviceColumns+` FROM services WHERE is_deleted != 1`)
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*model.Service, error) {
	services, err := r.query(ctx, "getById",
		`SELECT `+serviceColumns+` FROM services WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, nil
	}
	return &services[0], nil
}

func (r *ServiceRepo) GetUnsynced(ctx context.Context) ([]model.Service, error) {
	return r.query(ctx, "getUnsynced",
		`SELECT `+serviceColumns+` FROM services WHERE sync = 0`)
}

func (r *ServiceRepo) Save(ctx context.Context, s *model.Service) error {
	s.Sync = false
	s.IsDeleted = false
	return r.upsert(ctx, "save", s)
}

func (r *ServiceRepo) Import(ctx context.Context, s *model.Service) error {
	return r.upsert(ctx, "import", s)
}

func (r *ServiceRepo) upsert(ctx context.Context, op string, s *model.Service) error {
	return execChecked(ctx, r.store, servicesTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO services (`+serviceColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Duration, s.Description, s.Price, s.SalePrice,
			s.Sync, s.IsDeleted, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return storeErr(op, servicesTable, err)
		}
		return nil
	})
}

func (r *ServiceRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, servicesTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE services SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", servicesTable, err)
		}
		return nil
	})
}

func (r *ServiceRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, servicesTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE services SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", servicesTable, err)
		}
		return nil
	})
}
