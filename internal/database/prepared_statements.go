package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetUserByUsername *gocql.Query
	stmtInsertUser        *gocql.Query
	stmtGetOrderByID      *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements.
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements users: %v", err)
			return
		}

		stmtGetUserByUsername = usersSession.Query(
			`SELECT username, email, password, address, role, created_at FROM users WHERE username = ?`)

		stmtInsertUser = usersSession.Query(
			`INSERT INTO users (username, email, password, address, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`)

		ordersSession, err := GetOrdersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements orders: %v", err)
			return
		}

		stmtGetOrderByID = ordersSession.Query(
			`SELECT order_id, cart_id, username, owner_address, delivery_address, payment_method, payment_state, state, items, total_price, created_at
			 FROM orders WHERE order_id = ?`)

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserByUsername() *gocql.Query {
	return stmtGetUserByUsername
}

func GetPreparedInsertUser() *gocql.Query {
	return stmtInsertUser
}

func GetPreparedGetOrderByID() *gocql.Query {
	return stmtGetOrderByID
}
