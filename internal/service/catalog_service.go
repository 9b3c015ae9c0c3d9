package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"hive-food/internal/domain"
)

type CatalogServiceInterface interface {
	CreateRestaurant(rest *domain.Restaurant) error
	ListRestaurants() ([]domain.Restaurant, error)
	GetRestaurant(id int) (*domain.Restaurant, error)
	UpdateRestaurant(rest *domain.Restaurant) error
	DeleteRestaurant(ctx context.Context, id int) error
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, restaurantID, itemID int) error
}

// CatalogService owns the read-mostly reference data: restaurants and
// their menus. Menu reads go through the cache; every menu or
// restaurant mutation drops the cached menu.
type CatalogService struct {
	repo  CatalogRepository
	cache MenuCache
}

func NewCatalogService(repo CatalogRepository, cache MenuCache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) CreateRestaurant(rest *domain.Restaurant) error {
	rest.Name = strings.TrimSpace(rest.Name)
	if rest.Name == "" {
		return ErrEmptyName
	}
	return s.repo.CreateRestaurant(rest)
}

func (s *CatalogService) ListRestaurants() ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants()
}

func (s *CatalogService) GetRestaurant(id int) (*domain.Restaurant, error) {
	rest, err := s.repo.GetRestaurant(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rest, err
}

func (s *CatalogService) UpdateRestaurant(rest *domain.Restaurant) error {
	rest.Name = strings.TrimSpace(rest.Name)
	if rest.Name == "" {
		return ErrEmptyName
	}
	if err := s.repo.UpdateRestaurant(rest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.dropMenu(context.Background(), rest.ID)
	return nil
}

func (s *CatalogService) DeleteRestaurant(ctx context.Context, id int) error {
	affected, err := s.repo.DeleteRestaurant(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.dropMenu(ctx, id)
	return nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return ErrEmptyName
	}
	if _, err := s.GetRestaurant(item.RestaurantID); err != nil {
		return err
	}
	if err := s.repo.CreateMenuItem(item); err != nil {
		return err
	}
	s.dropMenu(ctx, item.RestaurantID)
	return nil
}

func (s *CatalogService) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	if s.cache != nil {
		if items, err := s.cache.GetMenu(ctx, restaurantID); err == nil && items != nil {
			return items, nil
		}
	}

	items, err := s.repo.ListMenu(restaurantID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, restaurantID, items); err != nil {
			log.Printf("Warning: failed to cache menu for restaurant %d: %v", restaurantID, err)
		}
	}
	return items, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return ErrEmptyName
	}
	if err := s.repo.UpdateMenuItem(item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.dropMenu(ctx, item.RestaurantID)
	return nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, restaurantID, itemID int) error {
	affected, err := s.repo.DeleteMenuItem(restaurantID, itemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.dropMenu(ctx, restaurantID)
	return nil
}

func (s *CatalogService) dropMenu(ctx context.Context, restaurantID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DropMenu(ctx, restaurantID); err != nil {
		log.Printf("Warning: failed to drop cached menu for restaurant %d: %v", restaurantID, err)
	}
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
