package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sweetshop/backend/internal/inventory"
	"sweetshop/backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Numeric columns cross the wire as text so decimal values survive the
// round trip without binary-format rounding surprises.
const sweetColumns = "id, name, description, category, price::text, quantity, image_url, created_at, updated_at"

type SweetRepository struct {
	db *pgxpool.Pool
}

func NewSweetRepository(db *pgxpool.Pool) *SweetRepository {
	return &SweetRepository{db: db}
}

func scanSweet(row pgx.Row) (model.Sweet, error) {
	var s model.Sweet
	var price string
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &price,
		&s.Quantity, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Sweet{}, inventory.ErrNotFound
		}
		return model.Sweet{}, fmt.Errorf("failed to scan sweet: %w", err)
	}
	s.Price, err = decimal.NewFromString(price)
	if err != nil {
		return model.Sweet{}, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	return s, nil
}

// GetSweet returns a single sweet by id.
func (r *SweetRepository) GetSweet(ctx context.Context, id string) (model.Sweet, error) {
	row := r.db.QueryRow(ctx, "SELECT "+sweetColumns+" FROM sweets WHERE id = $1", id)
	return scanSweet(row)
}

// ListSweets returns all sweets, newest first.
func (r *SweetRepository) ListSweets(ctx context.Context) ([]model.Sweet, error) {
	rows, err := r.db.Query(ctx, "SELECT "+sweetColumns+" FROM sweets ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	defer rows.Close()
	return collectSweets(rows)
}

// SearchSweets applies the provided filters conjunctively, newest first.
func (r *SweetRepository) SearchSweets(ctx context.Context, f model.SweetFilter) ([]model.Sweet, error) {
	query := "SELECT " + sweetColumns + " FROM sweets"
	var conds []string
	var args []any

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, f.MinPrice.String())
		conds = append(conds, fmt.Sprintf("price >= $%d::numeric", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, f.MaxPrice.String())
		conds = append(conds, fmt.Sprintf("price <= $%d::numeric", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}
	defer rows.Close()
	return collectSweets(rows)
}

func collectSweets(rows pgx.Rows) ([]model.Sweet, error) {
	sweets := []model.Sweet{}
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, err
		}
		sweets = append(sweets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sweet rows: %w", err)
	}
	return sweets, nil
}

// InsertSweet stores a fully populated sweet.
func (r *SweetRepository) InsertSweet(ctx context.Context, s model.Sweet) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sweets (id, name, description, category, price, quantity, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`,
		s.ID, s.Name, s.Description, s.Category, s.Price.String(), s.Quantity, s.ImageURL, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sweet: %w", err)
	}
	return nil
}

// UpdateSweet applies the non-nil fields of upd and returns the updated row.
func (r *SweetRepository) UpdateSweet(ctx context.Context, id string, upd model.SweetUpdate) (model.Sweet, error) {
	var sets []string
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Price != nil {
		args = append(args, upd.Price.String())
		sets = append(sets, fmt.Sprintf("price = $%d::numeric", len(args)))
	}
	if upd.Quantity != nil {
		add("quantity", *upd.Quantity)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE sweets SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), sweetColumns)

	row := r.db.QueryRow(ctx, query, args...)
	return scanSweet(row)
}

// DeleteSweet removes a sweet by id.
func (r *SweetRepository) DeleteSweet(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM sweets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty from the sweet's quantity only if enough
// stock is on hand. The quantity guard and the write are a single
// statement, so concurrent purchases cannot drive the quantity negative.
// Returns false when no row was affected (missing sweet or too little
// stock); the caller decides which it was.
func (r *SweetRepository) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		"UPDATE sweets SET quantity = quantity - $1, updated_at = now() WHERE id = $2 AND quantity >= $1",
		qty, id)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementStock adds qty to the sweet's quantity and returns the updated
// row. Used for restocks and for the compensating restore after a failed
// purchase insert.
func (r *SweetRepository) IncrementStock(ctx context.Context, id string, qty int) (model.Sweet, error) {
	row := r.db.QueryRow(ctx,
		"UPDATE sweets SET quantity = quantity + $1, updated_at = now() WHERE id = $2 RETURNING "+sweetColumns,
		qty, id)
	return scanSweet(row)
}

// InsertPurchase stores an immutable purchase record.
func (r *SweetRepository) InsertPurchase(ctx context.Context, p model.Purchase) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO purchases (id, user_id, sweet_id, quantity, total_price, purchased_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6)`,
		p.ID, p.UserID, p.SweetID, p.Quantity, p.TotalPrice.String(), p.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}
