package tests

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"hive-food/internal/domain"
	"hive-food/internal/mocks"
	"hive-food/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListMenu_CacheHit(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	cache := mocks.NewMenuCache(t)

	cached := []domain.MenuItem{{ID: 1, RestaurantID: 4, Name: "Margherita"}}
	cache.On("GetMenu", ctx, 4).Return(cached, nil).Once()

	svc := service.NewCatalogService(repo, cache)
	items, err := svc.ListMenu(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, cached, items)
}

func TestCatalogService_ListMenu_CacheMissFillsCache(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	cache := mocks.NewMenuCache(t)

	fromDB := []domain.MenuItem{{ID: 1, RestaurantID: 4, Name: "Margherita"}}
	cache.On("GetMenu", ctx, 4).Return(nil, nil).Once()
	repo.On("ListMenu", 4).Return(fromDB, nil).Once()
	cache.On("SetMenu", ctx, 4, fromDB).Return(nil).Once()

	svc := service.NewCatalogService(repo, cache)
	items, err := svc.ListMenu(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, fromDB, items)
}

func TestCatalogService_ListMenu_CacheErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	cache := mocks.NewMenuCache(t)

	fromDB := []domain.MenuItem{{ID: 1, RestaurantID: 4, Name: "Margherita"}}
	cache.On("GetMenu", ctx, 4).Return(nil, errors.New("redis down")).Once()
	repo.On("ListMenu", 4).Return(fromDB, nil).Once()
	cache.On("SetMenu", ctx, 4, fromDB).Return(errors.New("redis down")).Once()

	svc := service.NewCatalogService(repo, cache)
	items, err := svc.ListMenu(ctx, 4)
	require.NoError(t, err, "cache failures never surface to callers")
	assert.Equal(t, fromDB, items)
}

func TestCatalogService_CreateMenuItem_DropsCache(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	cache := mocks.NewMenuCache(t)

	repo.On("GetRestaurant", 4).Return(&domain.Restaurant{ID: 4, Name: "Napoli"}, nil).Once()
	repo.On("CreateMenuItem", mock.Anything).Return(nil).Once()
	cache.On("DropMenu", ctx, 4).Return(nil).Once()

	svc := service.NewCatalogService(repo, cache)
	err := svc.CreateMenuItem(ctx, &domain.MenuItem{RestaurantID: 4, Name: " Margherita "})
	require.NoError(t, err)
}

func TestCatalogService_CreateMenuItem_UnknownRestaurant(t *testing.T) {
	repo := mocks.NewCatalogRepository(t)
	repo.On("GetRestaurant", 99).Return(nil, sql.ErrNoRows).Once()

	svc := service.NewCatalogService(repo, mocks.NewMenuCache(t))
	err := svc.CreateMenuItem(context.Background(), &domain.MenuItem{RestaurantID: 99, Name: "Margherita"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogService_CreateMenuItem_EmptyName(t *testing.T) {
	svc := service.NewCatalogService(mocks.NewCatalogRepository(t), mocks.NewMenuCache(t))
	err := svc.CreateMenuItem(context.Background(), &domain.MenuItem{RestaurantID: 4, Name: "  "})
	assert.ErrorIs(t, err, service.ErrEmptyName)
}

func TestCatalogService_DeleteMenuItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success_drops_cache", func(t *testing.T) {
		repo := mocks.NewCatalogRepository(t)
		cache := mocks.NewMenuCache(t)
		repo.On("DeleteMenuItem", 4, 7).Return(int64(1), nil).Once()
		cache.On("DropMenu", ctx, 4).Return(nil).Once()

		svc := service.NewCatalogService(repo, cache)
		assert.NoError(t, svc.DeleteMenuItem(ctx, 4, 7))
	})

	t.Run("missing_item", func(t *testing.T) {
		repo := mocks.NewCatalogRepository(t)
		repo.On("DeleteMenuItem", 4, 7).Return(int64(0), nil).Once()

		svc := service.NewCatalogService(repo, mocks.NewMenuCache(t))
		assert.ErrorIs(t, svc.DeleteMenuItem(ctx, 4, 7), service.ErrNotFound)
	})
}

func TestCatalogService_Restaurants(t *testing.T) {
	t.Run("create_trims_name", func(t *testing.T) {
		repo := mocks.NewCatalogRepository(t)
		repo.On("CreateRestaurant", mock.MatchedBy(func(r *domain.Restaurant) bool {
			return r.Name == "Napoli"
		})).Return(nil).Once()

		svc := service.NewCatalogService(repo, mocks.NewMenuCache(t))
		assert.NoError(t, svc.CreateRestaurant(&domain.Restaurant{Name: "  Napoli  "}))
	})

	t.Run("create_empty_name", func(t *testing.T) {
		svc := service.NewCatalogService(mocks.NewCatalogRepository(t), mocks.NewMenuCache(t))
		assert.ErrorIs(t, svc.CreateRestaurant(&domain.Restaurant{Name: " "}), service.ErrEmptyName)
	})

	t.Run("get_missing", func(t *testing.T) {
		repo := mocks.NewCatalogRepository(t)
		repo.On("GetRestaurant", 99).Return(nil, sql.ErrNoRows).Once()

		svc := service.NewCatalogService(repo, mocks.NewMenuCache(t))
		_, err := svc.GetRestaurant(99)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("delete_missing", func(t *testing.T) {
		repo := mocks.NewCatalogRepository(t)
		repo.On("DeleteRestaurant", 99).Return(int64(0), nil).Once()

		svc := service.NewCatalogService(repo, mocks.NewMenuCache(t))
		assert.ErrorIs(t, svc.DeleteRestaurant(context.Background(), 99), service.ErrNotFound)
	})
}
