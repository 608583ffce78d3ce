package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobinJoby/food-surplus-platform/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foodColumns = `f.id, f.donor_id, u.name, f.title, f.description, f.quantity, f.unit,
	f.expiry_date, f.pickup_start, f.pickup_end, f.location, f.latitude, f.longitude,
	f.image_url, f.status, f.created_at, f.updated_at`

// FoodRepository handles database operations for food items
type FoodRepository struct {
	db *pgxpool.Pool
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *pgxpool.Pool) *FoodRepository {
	return &FoodRepository{db: db}
}

func scanFoodItem(row pgx.Row) (*models.FoodItem, error) {
	var f models.FoodItem
	err := row.Scan(
		&f.ID, &f.DonorID, &f.DonorName, &f.Title, &f.Description, &f.Quantity, &f.Unit,
		&f.ExpiryDate, &f.PickupStart, &f.PickupEnd, &f.Location, &f.Latitude, &f.Longitude,
		&f.ImageURL, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create creates a new food item
func (r *FoodRepository) Create(ctx context.Context, item *models.FoodItem) error {
	query := `
		INSERT INTO food_items (id, donor_id, title, description, quantity, unit, expiry_date,
			pickup_start, pickup_end, location, latitude, longitude, image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.DonorID, item.Title, item.Description, item.Quantity, item.Unit,
		item.ExpiryDate, item.PickupStart, item.PickupEnd, item.Location,
		item.Latitude, item.Longitude, item.ImageURL, item.Status, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create food item: %w", err)
	}
	return nil
}

// GetByID retrieves a food item by ID, with the donor name joined in
func (r *FoodRepository) GetByID(ctx context.Context, id string) (*models.FoodItem, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM food_items f
		JOIN users u ON u.id = f.donor_id
		WHERE f.id = $1
	`
	item, err := scanFoodItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("food item not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get food item: %w", err)
	}
	return item, nil
}

// Update persists the mutable fields of a food item, status included
func (r *FoodRepository) Update(ctx context.Context, item *models.FoodItem) error {
	query := `
		UPDATE food_items
		SET title = $1, description = $2, quantity = $3, unit = $4, status = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		item.Title, item.Description, item.Quantity, item.Unit, item.Status, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update food item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("food item not found")
	}
	return nil
}

// UpdateStatus persists a status change only
func (r *FoodRepository) UpdateStatus(ctx context.Context, id string, status models.FoodStatus) error {
	query := `UPDATE food_items SET status = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update food item status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("food item not found")
	}
	return nil
}

// ListPage retrieves food items by status with optional donor and search
// filters, paginated in SQL. Used for donor and admin listings.
func (r *FoodRepository) ListPage(ctx context.Context, status models.FoodStatus, donorID *string, search string, limit, offset int) ([]*models.FoodItem, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM food_items f
		WHERE f.status = $1
		  AND ($2::uuid IS NULL OR f.donor_id = $2::uuid)
		  AND ($3 = '' OR f.title ILIKE '%' || $3 || '%' OR f.description ILIKE '%' || $3 || '%')
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, status, donorID, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count food items: %w", err)
	}

	query := `
		SELECT ` + foodColumns + `
		FROM food_items f
		JOIN users u ON u.id = f.donor_id
		WHERE f.status = $1
		  AND ($2::uuid IS NULL OR f.donor_id = $2::uuid)
		  AND ($3 = '' OR f.title ILIKE '%' || $3 || '%' OR f.description ILIKE '%' || $3 || '%')
		ORDER BY f.created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, status, donorID, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list food items: %w", err)
	}
	defer rows.Close()

	items, err := collectFoodItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAllByStatus retrieves every food item in a status, with an optional
// search filter. The discovery query ranks these by distance in memory.
func (r *FoodRepository) ListAllByStatus(ctx context.Context, status models.FoodStatus, search string) ([]*models.FoodItem, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM food_items f
		JOIN users u ON u.id = f.donor_id
		WHERE f.status = $1
		  AND ($2 = '' OR f.title ILIKE '%' || $2 || '%' OR f.description ILIKE '%' || $2 || '%')
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, status, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	defer rows.Close()

	return collectFoodItems(rows)
}

func collectFoodItems(rows pgx.Rows) ([]*models.FoodItem, error) {
	var items []*models.FoodItem
	for rows.Next() {
		item, err := scanFoodItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating food items: %w", err)
	}
	return items, nil
}
