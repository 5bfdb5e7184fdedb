package db

import (
	"fmt"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
}

func (db *DB) CreateUser(input CreateUserInput) (*User, error) {
	id := NewID()
	_, err := db.Exec(`
		INSERT INTO users (id, name, email, password_hash)
		VALUES (?, ?, ?, ?)`, id, input.Name, input.Email, input.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &User{
		ID:    id,
		Name:  input.Name,
		Email: input.Email,
		Role:  "owner",
	}, nil
}

func (db *DB) GetUserByEmail(email string) (*User, string, error) {
	u := &User{}
	var passwordHash string
	err := db.QueryRow(`
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = ?`, email).Scan(
		&u.ID, &u.Name, &u.Email, &passwordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	return u, passwordHash, nil
}

func (db *DB) GetUserByID(id string) (*User, error) {
	u := &User{}
	err := db.QueryRow(`
		SELECT id, name, email, role, created_at
		FROM users WHERE id = ?`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
