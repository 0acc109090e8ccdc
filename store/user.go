package store

import (
	"database/sql"
	"fmt"

	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

func (s *PostgresStore) CreateUser(u *models.User) (int64, error) {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	var id int64
	err := s.DB.QueryRow(
		`INSERT INTO users (name, email, address, role) VALUES ($1,$2,$3,$4) RETURNING id`,
		u.Name, u.Email, u.Address, string(role),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetUser(id int64) (*models.User, error) {
	var u models.User
	var role string
	err := s.DB.QueryRow(
		`SELECT id, name, email, address, role FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Address, &role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	u.Role = models.Role(role)
	return &u, nil
}
