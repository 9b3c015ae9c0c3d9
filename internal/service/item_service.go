package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hive-food/internal/domain"
)

// ItemInput carries raw form fields for creating or editing a line
// item. Price arrives as free text and is parsed to cents; an empty
// price means "no price".
type ItemInput struct {
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"item_name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price_eur"`
	Notes      string `json:"notes"`
}

type ItemServiceInterface interface {
	Create(ctx context.Context, sessionID int, submitter *domain.User, input ItemInput) (*domain.OrderItem, error)
	Update(ctx context.Context, sessionID, itemID int, editor *domain.User, input ItemInput) (*domain.OrderItem, error)
	Delete(ctx context.Context, sessionID, itemID int, editor *domain.User) error
	List(sessionID int) ([]domain.OrderItem, error)
}

type ItemService struct {
	sessions  SessionRepository
	items     ItemRepository
	catalog   CatalogRepository
	publisher EventPublisher
}

func NewItemService(sessions SessionRepository, items ItemRepository, catalog CatalogRepository, publisher EventPublisher) *ItemService {
	return &ItemService{
		sessions:  sessions,
		items:     items,
		catalog:   catalog,
		publisher: publisher,
	}
}

func (s *ItemService) Create(ctx context.Context, sessionID int, submitter *domain.User, input ItemInput) (*domain.OrderItem, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !IsEditable(session, time.Now().UTC()) {
		return nil, ErrSessionLocked
	}

	name := strings.TrimSpace(input.Name)
	price, err := domain.ParsePrice(input.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	// Menu resolution: a selected menu item pre-fills name and price as
	// of now; an explicit price always wins. The resolved values are
	// stored on the item, so later menu edits never touch it.
	if input.MenuItemID > 0 {
		menuItem, err := s.catalog.GetMenuItem(input.MenuItemID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("menu item: %w", ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = menuItem.Name
		}
		if price == nil && menuItem.PriceCents != nil {
			cents := *menuItem.PriceCents
			price = &cents
		}
	}
	if name == "" {
		return nil, ErrMissingSelection
	}

	item := &domain.OrderItem{
		SessionID:  sessionID,
		UserID:     submitter.ID,
		ItemName:   name,
		Quantity:   clampQuantity(input.Quantity),
		PriceCents: price,
		Notes:      strings.TrimSpace(input.Notes),
	}
	if err := s.items.InsertItem(item); err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	s.publish(ctx, domain.EventItemAdded, session, item)
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, sessionID, itemID int, editor *domain.User, input ItemInput) (*domain.OrderItem, error) {
	session, item, err := s.loadSessionItem(sessionID, itemID)
	if err != nil {
		return nil, err
	}
	if !IsEditable(session, time.Now().UTC()) {
		return nil, ErrSessionLocked
	}
	if !CanMutateItem(editor, item) {
		return nil, ErrNotAllowed
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	price, err := domain.ParsePrice(input.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	item.ItemName = name
	item.Quantity = clampQuantity(input.Quantity)
	item.PriceCents = price
	item.Notes = strings.TrimSpace(input.Notes)
	if err := s.items.UpdateItem(item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.publish(ctx, domain.EventItemUpdated, session, item)
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, sessionID, itemID int, editor *domain.User) error {
	session, item, err := s.loadSessionItem(sessionID, itemID)
	if err != nil {
		return err
	}
	if !IsEditable(session, time.Now().UTC()) {
		return ErrSessionLocked
	}
	if !CanMutateItem(editor, item) {
		return ErrNotAllowed
	}

	affected, err := s.items.DeleteItem(sessionID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.publish(ctx, domain.EventItemDeleted, session, item)
	return nil
}

// List returns a session's items in creation order; that order drives
// both the display table and the transcript grouping within a person.
func (s *ItemService) List(sessionID int) ([]domain.OrderItem, error) {
	if _, err := s.loadSession(sessionID); err != nil {
		return nil, err
	}
	return s.items.ListItems(sessionID)
}

func (s *ItemService) loadSession(sessionID int) (*domain.OrderSession, error) {
	session, err := s.sessions.GetSession(sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ItemService) loadSessionItem(sessionID, itemID int) (*domain.OrderSession, *domain.OrderItem, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.items.GetItem(sessionID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return session, item, nil
}

func (s *ItemService) publish(ctx context.Context, eventType string, session *domain.OrderSession, item *domain.OrderItem) {
	if s.publisher == nil {
		return
	}
	event := domain.SessionEvent{
		Type:       eventType,
		SessionID:  session.ID,
		UserID:     item.UserID,
		Restaurant: session.Restaurant,
		ItemName:   item.ItemName,
		Quantity:   item.Quantity,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}

// Quantities below 1 are clamped up, never rejected.
func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

var _ ItemServiceInterface = (*ItemService)(nil)
