// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const productsTable = "products"

const productColumns = `id, name, description, price, sale_price, sync, is_deleted, created_at, updated_at`

// ProductRepo persists the product catalog.
type ProductRepo struct {
	store *Store
}

func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func scanProduct(rows *sql.Rows) (model.Product, error) {
	var p model.Product
	err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.SalePrice,
		&p.Sync, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepo) query(ctx context.Context, op, query string, args ...any) ([]model.Product, error) {
	return WithTableCheck(ctx, r.store, productsTable, func(ctx context.Context) ([]model.Product, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, productsTable, err)
		}
		defer rows.Close()

		products := []model.Product{}
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return nil, storeErr(op, productsTable, err)
			}
			products = append(products, p)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, productsTable, err)
		}
		return products, nil
	})
}

func (r *ProductRepo) GetAll(ctx context.Context) ([]model.Product, error) {
	return r.query(ctx, "getAll",
		`SELECT `+productColumns+` FROM products WHERE is_deleted != 1`)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	products, err := r.query(ctx, "getById",
		`SELECT `+productColumns+` FROM products WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

func (r *ProductRepo) GetUnsynced(ctx context.Context) ([]model.Product, error) {
	return r.query(ctx, "getUnsynced",
		`SELECT `+productColumns+` FROM products WHERE sync = 0`)
}

func (r *ProductRepo) Save(ctx context.Context, p *model.Product) error {
	p.Sync = false
	p.IsDeleted = false
	return r.upsert(ctx, "save", p)
}

func (r *ProductRepo) Import(ctx context.Context, p *model.Product) error {
	return r.upsert(ctx, "import", p)
}

func (r *ProductRepo) upsert(ctx context.Context, op string, p *model.Product) error {
	return execChecked(ctx, r.store, productsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO products (`+productColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, p.Price, p.SalePrice,
			p.Sync, p.IsDeleted, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return storeErr(op, productsTable, err)
		}
		return nil
	})
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, productsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE products SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", productsTable, err)
		}
		return nil
	})
}

func (r *ProductRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, productsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE products SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", productsTable, err)
		}
		return nil
	})
}
