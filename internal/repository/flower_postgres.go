package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

type PostgresFlowerRepository struct {
	db *sql.DB
}

func NewFlowerRepository(db *sql.DB) *PostgresFlowerRepository {
	return &PostgresFlowerRepository{db: db}
}

const flowerColumns = `id, shop_id, name, color, price, quantity, boosted, in_stock,
	shelf_life_days, last_restocked_at, created_at, updated_at`

func (r *PostgresFlowerRepository) ListByShop(ctx context.Context, shopID uuid.UUID, inStockOnly bool) ([]domain.Flower, error) {
	query := fmt.Sprintf(`SELECT %s FROM flowers WHERE shop_id = $1`, flowerColumns)
	if inStockOnly {
		query += ` AND in_stock`
	}
	query += ` ORDER BY boosted DESC, name`

	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("query flowers: %w", err)
	}
	defer rows.Close()

	var flowers []domain.Flower
	for rows.Next() {
		flower, err := scanFlower(rows)
		if err != nil {
			return nil, err
		}
		flowers = append(flowers, *flower)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return flowers, nil
}

func (r *PostgresFlowerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flower, error) {
	query := fmt.Sprintf(`SELECT %s FROM flowers WHERE id = $1`, flowerColumns)

	flower, err := scanFlower(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlowerNotFound
	}
	if err != nil {
		return nil, err
	}
	return flower, nil
}

func (r *PostgresFlowerRepository) Create(ctx context.Context, flower *domain.Flower) error {
	if flower.ID == uuid.Nil {
		flower.ID = uuid.New()
	}
	now := time.Now()
	flower.CreatedAt = now
	flower.UpdatedAt = now
	flower.InStock = flower.Quantity > 0

	query := `INSERT INTO flowers (id, shop_id, name, color, price, quantity, boosted, in_stock,
	          shelf_life_days, last_restocked_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		flower.ID,
		flower.ShopID,
		flower.Name,
		flower.Color,
		flower.Price,
		flower.Quantity,
		flower.Boosted,
		flower.InStock,
		flower.ShelfLifeDays,
		flower.LastRestockedAt,
		flower.CreatedAt,
		flower.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert flower: %w", err)
	}
	return nil
}

func (r *PostgresFlowerRepository) Restock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Flower, error) {
	query := fmt.Sprintf(`UPDATE flowers
	          SET quantity = quantity + $2,
	              in_stock = quantity + $2 > 0,
	              last_restocked_at = NOW(),
	              updated_at = NOW()
	          WHERE id = $1
	          RETURNING %s`, flowerColumns)

	flower, err := scanFlower(r.db.QueryRowContext(ctx, query, id, quantity))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlowerNotFound
	}
	if err != nil {
		return nil, err
	}
	return flower, nil
}

func (r *PostgresFlowerRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	// Floored at zero: quantity never goes negative, and in_stock stays in
	// sync with the invariant in_stock <=> quantity > 0.
	query := `UPDATE flowers
	          SET quantity = GREATEST(quantity - $2, 0),
	              in_stock = GREATEST(quantity - $2, 0) > 0,
	              updated_at = NOW()
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if affected == 0 {
		return ErrFlowerNotFound
	}
	return nil
}

func (r *PostgresFlowerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flowers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flower: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete flower: %w", err)
	}
	if affected == 0 {
		return ErrFlowerNotFound
	}
	return nil
}

func (r *PostgresFlowerRepository) ExpireStale(ctx context.Context) (int64, error) {
	query := `UPDATE flowers
	          SET quantity = 0, in_stock = FALSE, updated_at = NOW()
	          WHERE in_stock
	            AND last_restocked_at IS NOT NULL
	            AND shelf_life_days > 0
	            AND last_restocked_at + shelf_life_days * INTERVAL '1 day' < NOW()`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("expire stale flowers: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire stale flowers: %w", err)
	}
	return affected, nil
}

func scanFlower(row rowScanner) (*domain.Flower, error) {
	var flower domain.Flower
	err := row.Scan(
		&flower.ID,
		&flower.ShopID,
		&flower.Name,
		&flower.Color,
		&flower.Price,
		&flower.Quantity,
		&flower.Boosted,
		&flower.InStock,
		&flower.ShelfLifeDays,
		&flower.LastRestockedAt,
		&flower.CreatedAt,
		&flower.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan flower row: %w", err)
	}
	return &flower, nil
}
