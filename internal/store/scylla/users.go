// Package scylla implémente les contrats de store sur les keyspaces ScyllaDB.
package scylla

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
)

// UserStore lit et écrit les utilisateurs du keyspace users.
type UserStore struct{}

func NewUserStore() *UserStore { return &UserStore{} }

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User

	var err error
	if stmt := database.GetPreparedGetUserByUsername(); stmt != nil {
		err = stmt.Bind(username).WithContext(ctx).
			Scan(&u.Username, &u.Email, &u.Password, &u.Address, &u.Role, &u.CreatedAt)
	} else {
		session, sessErr := database.GetUsersSession()
		if sessErr != nil {
			return nil, sessErr
		}
		err = session.Query(
			`SELECT username, email, password, address, role, created_at FROM users WHERE username = ?`,
			username).WithContext(ctx).
			Scan(&u.Username, &u.Email, &u.Password, &u.Address, &u.Role, &u.CreatedAt)
	}

	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	if stmt := database.GetPreparedInsertUser(); stmt != nil {
		return stmt.Bind(user.Username, user.Email, user.Password, user.Address, user.Role, user.CreatedAt).
			WithContext(ctx).Exec()
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}
	return session.Query(
		`INSERT INTO users (username, email, password, address, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.Password, user.Address, user.Role, user.CreatedAt).
		WithContext(ctx).Exec()
}
