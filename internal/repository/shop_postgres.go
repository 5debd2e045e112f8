package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

type PostgresShopRepository struct {
	db *sql.DB
}

func NewShopRepository(db *sql.DB) *PostgresShopRepository {
	return &PostgresShopRepository{db: db}
}

const shopColumns = `id, name, address, latitude, longitude, rating, review_count,
	specialty, hours, tags, owner_id, website, phone, created_at, updated_at`

func (r *PostgresShopRepository) List(ctx context.Context) ([]domain.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops ORDER BY rating DESC, review_count DESC`, shopColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, *shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return shops, nil
}

func (r *PostgresShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops WHERE id = $1`, shopColumns)

	shop, err := scanShop(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func (r *PostgresShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	now := time.Now()
	shop.CreatedAt = now
	shop.UpdatedAt = now

	query := `INSERT INTO shops (id, name, address, latitude, longitude, rating, review_count,
	          specialty, hours, tags, owner_id, website, phone, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		shop.ID,
		shop.Name,
		shop.Address,
		shop.Latitude,
		shop.Longitude,
		shop.Rating,
		shop.ReviewCount,
		shop.Specialty,
		shop.Hours,
		pq.Array(shop.Tags),
		shop.OwnerID,
		shop.Website,
		shop.Phone,
		shop.CreatedAt,
		shop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *PostgresShopRepository) AssignOwner(ctx context.Context, shopID uuid.UUID, ownerID *uuid.UUID) error {
	query := `UPDATE shops SET owner_id = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, shopID, ownerID)
	if err != nil {
		return fmt.Errorf("assign shop owner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign shop owner: %w", err)
	}
	if affected == 0 {
		return ErrShopNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShop(row rowScanner) (*domain.Shop, error) {
	var shop domain.Shop
	var tags pq.StringArray
	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Address,
		&shop.Latitude,
		&shop.Longitude,
		&shop.Rating,
		&shop.ReviewCount,
		&shop.Specialty,
		&shop.Hours,
		&tags,
		&shop.OwnerID,
		&shop.Website,
		&shop.Phone,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan shop row: %w", err)
	}
	shop.Tags = tags
	return &shop, nil
}
