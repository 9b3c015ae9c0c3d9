package service

import (
	"context"
	"time"

	"hive-food/internal/domain"
	"hive-food/internal/storage"
)

type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUser(id int) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	ListUsers() ([]domain.User, error)
	UsersByID(ids []int) (map[int]domain.User, error)
	UpdatePassword(id int, hash string) error
	SetAdmin(id int, isAdmin bool) error
	DeleteUser(id int) (int64, error)
}

type CatalogRepository interface {
	CreateRestaurant(rest *domain.Restaurant) error
	ListRestaurants() ([]domain.Restaurant, error)
	GetRestaurant(id int) (*domain.Restaurant, error)
	UpdateRestaurant(rest *domain.Restaurant) error
	DeleteRestaurant(id int) (int64, error)

	CreateMenuItem(item *domain.MenuItem) error
	ListMenu(restaurantID int) ([]domain.MenuItem, error)
	GetMenuItem(id int) (*domain.MenuItem, error)
	UpdateMenuItem(item *domain.MenuItem) error
	DeleteMenuItem(restaurantID, itemID int) (int64, error)
}

type SessionRepository interface {
	CreateSession(session *domain.OrderSession) error
	GetSession(id int) (*domain.OrderSession, error)
	ListSessions() ([]domain.OrderSession, error)
	CloseSession(id int, closedAt time.Time) error
}

type ItemRepository interface {
	InsertItem(item *domain.OrderItem) error
	GetItem(sessionID, itemID int) (*domain.OrderItem, error)
	ListItems(sessionID int) ([]domain.OrderItem, error)
	UpdateItem(item *domain.OrderItem) error
	DeleteItem(sessionID, itemID int) (int64, error)
}

type MenuCache interface {
	GetMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	SetMenu(ctx context.Context, restaurantID int, items []domain.MenuItem) error
	DropMenu(ctx context.Context, restaurantID int) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.SessionEvent) error
}

type ActivityRecorder interface {
	RecordItemEvent(ctx context.Context, event domain.SessionEvent) error
	RecordSessionClosed(ctx context.Context, event domain.SessionEvent) error
}

type ActivityReader interface {
	TopItemNames(ctx context.Context, limit int) ([]domain.ItemActivity, error)
}

var (
	_ UserRepository    = (*storage.PostgresRepository)(nil)
	_ CatalogRepository = (*storage.PostgresRepository)(nil)
	_ SessionRepository = (*storage.PostgresRepository)(nil)
	_ ItemRepository    = (*storage.PostgresRepository)(nil)
	_ MenuCache         = (*storage.RedisCache)(nil)
	_ EventPublisher    = (*storage.KafkaPublisher)(nil)
	_ ActivityRecorder  = (*storage.ActivityStore)(nil)
	_ ActivityReader    = (*storage.ActivityStore)(nil)
)
