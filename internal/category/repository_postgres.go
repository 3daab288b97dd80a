package category

import (
	"database/sql"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the category table and seeds it with DefaultMenu when empty.
func (r *PostgresRepository) EnsureSchema() error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS catalog_categories ("categoryKey" TEXT PRIMARY KEY, "categoryName" TEXT, "categoryNameVI" TEXT, ord INT)`); err != nil {
		return err
	}
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM catalog_categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i, c := range DefaultMenu {
		if _, err := r.db.Exec(`INSERT INTO catalog_categories ("categoryKey", "categoryName", "categoryNameVI", ord) VALUES ($1,$2,$3,$4)`, c.Key, c.CategoryName, c.NameVI, len(DefaultMenu)-i); err != nil {
			return err
		}
	}
	return nil
}

// List returns category rows ordered by `ord` then key.
// If the table/query is not available the built-in menu is returned.
func (r *PostgresRepository) List(limit int) ([]CategoryItem, error) {
	rows, err := r.db.Query(`SELECT "categoryKey", "categoryName", "categoryNameVI" FROM catalog_categories ORDER BY COALESCE(ord, 0) DESC, "categoryKey" LIMIT $1`, limit)
	if err != nil {
		return NewInMemoryRepository(nil).List(limit)
	}
	defer rows.Close()

	out := make([]CategoryItem, 0)
	for rows.Next() {
		var (
			key    string
			name   string
			nameVI sql.NullString
		)
		if err := rows.Scan(&key, &name, &nameVI); err != nil {
			continue
		}
		item := CategoryItem{Key: key, CategoryName: name}
		if nameVI.Valid {
			item.NameVI = nameVI.String
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
