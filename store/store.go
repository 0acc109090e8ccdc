package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

// PostgresStore implements the catalog, cart, user and order contracts on a
// single Postgres handle. The handle is created at startup and injected;
// nothing in this package holds global state.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// --- catalog ---

func (s *PostgresStore) CreateProduct(p *models.Product) error {
	details, err := detailsValue(p.Details)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(
		`INSERT INTO products (id, category, price, discount_percent, stock, details) VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, string(p.Category), p.Price, p.DiscountPercent, p.Stock, details,
	)
	return err
}

func (s *PostgresStore) UpdateProduct(p *models.Product) error {
	details, err := detailsValue(p.Details)
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(
		`UPDATE products SET category=$1, price=$2, discount_percent=$3, stock=$4, details=$5 WHERE id=$6`,
		string(p.Category), p.Price, p.DiscountPercent, p.Stock, details, p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(id string) error {
	res, err := s.DB.Exec(`DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetProduct(id string) (*models.Product, error) {
	var p models.Product
	var category string
	var details []byte
	err := s.DB.QueryRow(
		`SELECT id, category, price, discount_percent, stock, details FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &category, &p.Price, &p.DiscountPercent, &p.Stock, &details)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	p.Category = models.Category(category)
	p.Details = json.RawMessage(details)
	return &p, nil
}

func (s *PostgresStore) ListProducts() ([]models.Product, error) {
	rows, err := s.DB.Query(
		`SELECT id, category, price, discount_percent, stock, details FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		var p models.Product
		var category string
		var details []byte
		if err := rows.Scan(&p.ID, &category, &p.Price, &p.DiscountPercent, &p.Stock, &details); err != nil {
			return nil, err
		}
		p.Category = models.Category(category)
		p.Details = json.RawMessage(details)
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdjustStock applies delta in a single conditional UPDATE so a concurrent
// adjustment can never commit a negative quantity.
func (s *PostgresStore) AdjustStock(id string, delta int) (int, error) {
	var newStock int
	err := s.DB.QueryRow(
		`UPDATE products SET stock = stock + $1 WHERE id = $2 AND stock + $1 >= 0 RETURNING stock`,
		delta, id,
	).Scan(&newStock)
	if err == sql.ErrNoRows {
		// Distinguish a missing product from an underflow.
		var exists bool
		if err2 := s.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, id).Scan(&exists); err2 != nil {
			return 0, err2
		}
		if !exists {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock %s: %w", id, err)
	}
	return newStock, nil
}

func detailsValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("details is not valid json")
	}
	return []byte(raw), nil
}
