package catalog

import (
	"database/sql"

	"github.com/lib/pq"
)

// PostgresRepository implements Repository on the `catalog_products` table.
type PostgresRepository struct {
	db *sql.DB
}

const (
	createProductsTable = `CREATE TABLE IF NOT EXISTS catalog_products (
	position SERIAL PRIMARY KEY,
	"productName" TEXT NOT NULL UNIQUE,
	"productPrice" INT NOT NULL CHECK ("productPrice" >= 0),
	"productImg" TEXT NOT NULL DEFAULT '',
	categories TEXT[] NOT NULL DEFAULT '{}'
)`
	listProductsQuery  = `SELECT position, "productName", "productPrice", "productImg", categories FROM catalog_products ORDER BY position`
	insertProductQuery = `INSERT INTO catalog_products ("productName", "productPrice", "productImg", categories) VALUES ($1, $2, $3, $4)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the table and seeds DefaultProducts into an empty one.
func (r *PostgresRepository) EnsureSchema() error {
	if _, err := r.db.Exec(createProductsTable); err != nil {
		return err
	}
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM catalog_products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.Reset(DefaultProducts)
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Position, &p.Name, &p.Price, &p.Image, pq.Array(&p.Categories)); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Reset deletes all products and inserts the provided list in a single
// transaction. Insertion order becomes catalog order.
func (r *PostgresRepository) Reset(products []Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM catalog_products`); err != nil {
		return err
	}
	for _, p := range products {
		if _, err := tx.Exec(insertProductQuery, p.Name, p.Price, p.Image, pq.Array(p.Categories)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
