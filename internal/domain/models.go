package domain

import "time"

// SessionStatus is a closed set: a session is open until it is closed,
// and closed is terminal.
type SessionStatus string

const (
	StatusOpen   SessionStatus = "open"
	StatusClosed SessionStatus = "closed"
)

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Restaurant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItem struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurant_id"`
	Name         string    `json:"name"`
	PriceCents   *int64    `json:"price_cents,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type OrderSession struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	RestaurantID  *int          `json:"restaurant_id,omitempty"`
	Restaurant    string        `json:"restaurant"`
	RestaurantURL string        `json:"restaurant_url,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	DeadlineAt    time.Time     `json:"deadline_at"`
	Status        SessionStatus `json:"status"`
	CreatedBy     int           `json:"created_by_user_id"`
	CreatedAt     time.Time     `json:"created_at"`
	ClosedAt      *time.Time    `json:"closed_at,omitempty"`
}

type OrderItem struct {
	ID         int       `json:"id"`
	SessionID  int       `json:"session_id"`
	UserID     int       `json:"user_id"`
	ItemName   string    `json:"item_name"`
	Quantity   int       `json:"quantity"`
	PriceCents *int64    `json:"price_cents,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PersonTotal struct {
	UserID        int    `json:"user_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	ItemCount     int    `json:"item_count"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type SessionSummary struct {
	Totals          []PersonTotal `json:"totals"`
	GrandCount      int           `json:"grand_count"`
	GrandTotalCents int64         `json:"grand_total_cents"`
}

// ItemActivity is a popularity score kept by the activity consumer.
type ItemActivity struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

const (
	EventItemAdded     = "item_added"
	EventItemUpdated   = "item_updated"
	EventItemDeleted   = "item_deleted"
	EventSessionClosed = "session_closed"
)

type SessionEvent struct {
	Type       string    `json:"type"`
	SessionID  int       `json:"session_id"`
	UserID     int       `json:"user_id"`
	Restaurant string    `json:"restaurant,omitempty"`
	ItemName   string    `json:"item_name,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
