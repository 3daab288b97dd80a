package address

import (
	"database/sql"
)

// Postgres repository keeps the region table in one row per district.
// Table layout expected:
//   province_key text,
//   province_name text,
//   district_name text,
//   ord int

type PostgresRepository struct {
	db *sql.DB
}

const (
	createRegionsTable = `CREATE TABLE IF NOT EXISTS address_regions (
	province_key TEXT NOT NULL,
	province_name TEXT NOT NULL,
	district_name TEXT NOT NULL,
	ord INT NOT NULL,
	PRIMARY KEY (province_key, district_name)
)`
	listRegionsQuery = `
		SELECT province_key, province_name, district_name
		FROM address_regions
		ORDER BY ord
	`
	insertRegionQuery = `
		INSERT INTO address_regions (province_key, province_name, district_name, ord)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (province_key, district_name) DO NOTHING
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the region table and loads DefaultProvinces into it.
func (r *PostgresRepository) EnsureSchema() error {
	if _, err := r.db.Exec(createRegionsTable); err != nil {
		return err
	}
	ord := 0
	for _, p := range DefaultProvinces {
		for _, d := range p.Districts {
			if _, err := r.db.Exec(insertRegionQuery, p.Key, p.Name, d, ord); err != nil {
				return err
			}
			ord++
		}
	}
	return nil
}

func (r *PostgresRepository) Provinces() ([]Province, error) {
	rows, err := r.db.Query(listRegionsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Province, 0)
	index := map[string]int{}
	for rows.Next() {
		var key, name, district string
		if err := rows.Scan(&key, &name, &district); err != nil {
			return nil, err
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Province{Key: key, Name: name})
		}
		out[i].Districts = append(out[i].Districts, district)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Province(key string) (Province, error) {
	all, err := r.Provinces()
	if err != nil {
		return Province{}, err
	}
	for _, p := range all {
		if p.Key == key {
			return p, nil
		}
	}
	return Province{}, ErrUnknownProvince
}

