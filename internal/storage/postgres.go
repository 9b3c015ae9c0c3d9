package storage

import (
	"database/sql"
	"fmt"
	"time"

	"hive-food/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			price_cents BIGINT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_sessions (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			restaurant_id INTEGER REFERENCES restaurants(id) ON DELETE SET NULL,
			restaurant TEXT NOT NULL,
			restaurant_url TEXT,
			notes TEXT,
			deadline_at TIMESTAMP NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			created_by INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			closed_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			session_id INTEGER NOT NULL REFERENCES order_sessions(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL,
			item_name TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			price_cents BIGINT,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ---- users ----

func (r *PostgresRepository) CreateUser(user *domain.User) error {
	return r.DB.QueryRow(
		"INSERT INTO users (email, full_name, password_hash, is_admin) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		user.Email, user.FullName, user.PasswordHash, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *PostgresRepository) GetUser(id int) (*domain.User, error) {
	return r.scanUser(r.DB.QueryRow(
		"SELECT id, email, full_name, password_hash, is_admin, created_at FROM users WHERE id = $1", id))
}

func (r *PostgresRepository) GetUserByEmail(email string) (*domain.User, error) {
	return r.scanUser(r.DB.QueryRow(
		"SELECT id, email, full_name, password_hash, is_admin, created_at FROM users WHERE email = $1", email))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListUsers() ([]domain.User, error) {
	rows, err := r.DB.Query(
		"SELECT id, email, full_name, password_hash, is_admin, created_at FROM users ORDER BY full_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *PostgresRepository) UsersByID(ids []int) (map[int]domain.User, error) {
	users := map[int]domain.User{}
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := r.DB.Query(
		"SELECT id, email, full_name, password_hash, is_admin, created_at FROM users WHERE id = ANY($1)",
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			continue
		}
		users[user.ID] = user
	}
	return users, nil
}

func (r *PostgresRepository) UpdatePassword(id int, hash string) error {
	_, err := r.DB.Exec("UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	return err
}

func (r *PostgresRepository) SetAdmin(id int, isAdmin bool) error {
	_, err := r.DB.Exec("UPDATE users SET is_admin = $1 WHERE id = $2", isAdmin, id)
	return err
}

func (r *PostgresRepository) DeleteUser(id int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ---- restaurants & menus ----

func (r *PostgresRepository) CreateRestaurant(rest *domain.Restaurant) error {
	return r.DB.QueryRow(
		"INSERT INTO restaurants (name, url) VALUES ($1, $2) RETURNING id, created_at",
		rest.Name, rest.URL,
	).Scan(&rest.ID, &rest.CreatedAt)
}

func (r *PostgresRepository) ListRestaurants() ([]domain.Restaurant, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, COALESCE(url, ''), created_at
		FROM restaurants
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.URL, &rest.CreatedAt); err != nil {
			continue
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, nil
}

func (r *PostgresRepository) GetRestaurant(id int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRow(`
		SELECT id, name, COALESCE(url, ''), created_at
		FROM restaurants
		WHERE id = $1`, id).
		Scan(&rest.ID, &rest.Name, &rest.URL, &rest.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) UpdateRestaurant(rest *domain.Restaurant) error {
	return r.DB.QueryRow(
		"UPDATE restaurants SET name = $1, url = $2 WHERE id = $3 RETURNING id, name, COALESCE(url, ''), created_at",
		rest.Name, rest.URL, rest.ID).
		Scan(&rest.ID, &rest.Name, &rest.URL, &rest.CreatedAt)
}

func (r *PostgresRepository) DeleteRestaurant(id int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM restaurants WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) CreateMenuItem(item *domain.MenuItem) error {
	return r.DB.QueryRow(
		"INSERT INTO menu_items (restaurant_id, name, price_cents) VALUES ($1, $2, $3) RETURNING id, created_at",
		item.RestaurantID, item.Name, nullableCents(item.PriceCents),
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) ListMenu(restaurantID int) ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, restaurant_id, name, price_cents, created_at
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY created_at ASC, id ASC`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		var price sql.NullInt64
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &price, &item.CreatedAt); err != nil {
			continue
		}
		item.PriceCents = centsPtr(price)
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository) GetMenuItem(id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	var price sql.NullInt64
	err := r.DB.QueryRow(
		"SELECT id, restaurant_id, name, price_cents, created_at FROM menu_items WHERE id = $1", id).
		Scan(&item.ID, &item.RestaurantID, &item.Name, &price, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.PriceCents = centsPtr(price)
	return &item, nil
}

func (r *PostgresRepository) UpdateMenuItem(item *domain.MenuItem) error {
	result, err := r.DB.Exec(
		"UPDATE menu_items SET name = $1, price_cents = $2 WHERE id = $3 AND restaurant_id = $4",
		item.Name, nullableCents(item.PriceCents), item.ID, item.RestaurantID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) DeleteMenuItem(restaurantID, itemID int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2", itemID, restaurantID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ---- order sessions ----

func (r *PostgresRepository) CreateSession(session *domain.OrderSession) error {
	var restID sql.NullInt64
	if session.RestaurantID != nil {
		restID = sql.NullInt64{Int64: int64(*session.RestaurantID), Valid: true}
	}
	return r.DB.QueryRow(`
		INSERT INTO order_sessions (title, restaurant_id, restaurant, restaurant_url, notes, deadline_at, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, session.Title, restID, session.Restaurant, session.RestaurantURL, session.Notes,
		session.DeadlineAt, string(session.Status), session.CreatedBy).
		Scan(&session.ID, &session.CreatedAt)
}

const sessionColumns = `
	id, title, restaurant_id, restaurant, COALESCE(restaurant_url, ''), COALESCE(notes, ''),
	deadline_at, status, created_by, created_at, closed_at`

func (r *PostgresRepository) GetSession(id int) (*domain.OrderSession, error) {
	row := r.DB.QueryRow("SELECT "+sessionColumns+" FROM order_sessions WHERE id = $1", id)
	return scanSession(row.Scan)
}

func (r *PostgresRepository) ListSessions() ([]domain.OrderSession, error) {
	rows, err := r.DB.Query("SELECT " + sessionColumns + " FROM order_sessions ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.OrderSession
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			continue
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func scanSession(scan func(...interface{}) error) (*domain.OrderSession, error) {
	var session domain.OrderSession
	var restID sql.NullInt64
	var status string
	var closedAt sql.NullTime
	if err := scan(&session.ID, &session.Title, &restID, &session.Restaurant, &session.RestaurantURL,
		&session.Notes, &session.DeadlineAt, &status, &session.CreatedBy, &session.CreatedAt, &closedAt); err != nil {
		return nil, err
	}
	if restID.Valid {
		id := int(restID.Int64)
		session.RestaurantID = &id
	}
	session.Status = domain.SessionStatus(status)
	if closedAt.Valid {
		t := closedAt.Time
		session.ClosedAt = &t
	}
	return &session, nil
}

func (r *PostgresRepository) CloseSession(id int, closedAt time.Time) error {
	result, err := r.DB.Exec(
		"UPDATE order_sessions SET status = $1, closed_at = $2 WHERE id = $3 AND status = $4",
		string(domain.StatusClosed), closedAt, id, string(domain.StatusOpen))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ---- order items ----

func (r *PostgresRepository) InsertItem(item *domain.OrderItem) error {
	return r.DB.QueryRow(`
		INSERT INTO order_items (session_id, user_id, item_name, quantity, price_cents, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, item.SessionID, item.UserID, item.ItemName, item.Quantity, nullableCents(item.PriceCents), item.Notes).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) GetItem(sessionID, itemID int) (*domain.OrderItem, error) {
	var item domain.OrderItem
	var price sql.NullInt64
	err := r.DB.QueryRow(`
		SELECT id, session_id, user_id, item_name, quantity, price_cents, COALESCE(notes, ''), created_at, updated_at
		FROM order_items
		WHERE id = $1 AND session_id = $2`, itemID, sessionID).
		Scan(&item.ID, &item.SessionID, &item.UserID, &item.ItemName, &item.Quantity, &price, &item.Notes,
			&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.PriceCents = centsPtr(price)
	return &item, nil
}

func (r *PostgresRepository) ListItems(sessionID int) ([]domain.OrderItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, session_id, user_id, item_name, quantity, price_cents, COALESCE(notes, ''), created_at, updated_at
		FROM order_items
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var price sql.NullInt64
		if err := rows.Scan(&item.ID, &item.SessionID, &item.UserID, &item.ItemName, &item.Quantity, &price,
			&item.Notes, &item.CreatedAt, &item.UpdatedAt); err != nil {
			continue
		}
		item.PriceCents = centsPtr(price)
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository) UpdateItem(item *domain.OrderItem) error {
	return r.DB.QueryRow(`
		UPDATE order_items
		SET item_name = $1, quantity = $2, price_cents = $3, notes = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND session_id = $6
		RETURNING updated_at
	`, item.ItemName, item.Quantity, nullableCents(item.PriceCents), item.Notes, item.ID, item.SessionID).
		Scan(&item.UpdatedAt)
}

func (r *PostgresRepository) DeleteItem(sessionID, itemID int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM order_items WHERE id = $1 AND session_id = $2", itemID, sessionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullableCents(cents *int64) sql.NullInt64 {
	if cents == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *cents, Valid: true}
}

func centsPtr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	cents := value.Int64
	return &cents
}
