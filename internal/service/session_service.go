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

// datetime-local inputs arrive as "YYYY-MM-DDTHH:MM".
const deadlineInputFormat = "2006-01-02T15:04"

type SessionInput struct {
	Title         string `json:"title"`
	RestaurantID  int    `json:"restaurant_id"`
	Restaurant    string `json:"restaurant"`
	RestaurantURL string `json:"restaurant_url"`
	DeadlineAt    string `json:"deadline_at"`
	Notes         string `json:"notes"`
}

type SessionServiceInterface interface {
	Create(actor *domain.User, input SessionInput) (*domain.OrderSession, error)
	Get(id int) (*domain.OrderSession, error)
	List() ([]domain.OrderSession, error)
	Close(ctx context.Context, id int, actor *domain.User) (*domain.OrderSession, error)
	Summary(id int) (*domain.SessionSummary, error)
	Transcript(id int) (string, error)
	ExportCSV(id int) ([]byte, error)
	QRCode(id int) ([]byte, error)
}

type SessionService struct {
	sessions  SessionRepository
	items     ItemRepository
	users     UserRepository
	catalog   CatalogRepository
	publisher EventPublisher
	qrEncoder QRGenerator
}

func NewSessionService(sessions SessionRepository, items ItemRepository, users UserRepository, catalog CatalogRepository, publisher EventPublisher, qr QRGenerator) *SessionService {
	return &SessionService{
		sessions:  sessions,
		items:     items,
		users:     users,
		catalog:   catalog,
		publisher: publisher,
		qrEncoder: qr,
	}
}

func (s *SessionService) Create(actor *domain.User, input SessionInput) (*domain.OrderSession, error) {
	if !CanCreateSession(actor) {
		return nil, ErrNotAllowed
	}

	deadline, err := time.Parse(deadlineInputFormat, input.DeadlineAt)
	if err != nil {
		return nil, ErrInvalidDeadline
	}

	session := &domain.OrderSession{
		Title:         strings.TrimSpace(input.Title),
		Restaurant:    strings.TrimSpace(input.Restaurant),
		RestaurantURL: strings.TrimSpace(input.RestaurantURL),
		Notes:         strings.TrimSpace(input.Notes),
		DeadlineAt:    deadline.UTC(),
		Status:        domain.StatusOpen,
		CreatedBy:     actor.ID,
	}

	// Linking a catalog restaurant snapshots its name and URL; the
	// snapshot survives a later restaurant deletion.
	if input.RestaurantID > 0 {
		rest, err := s.catalog.GetRestaurant(input.RestaurantID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("restaurant: %w", ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		restID := rest.ID
		session.RestaurantID = &restID
		if session.Restaurant == "" {
			session.Restaurant = rest.Name
		}
		if session.RestaurantURL == "" {
			session.RestaurantURL = rest.URL
		}
	}

	if session.Title == "" || session.Restaurant == "" {
		return nil, ErrEmptyTitle
	}

	if err := s.sessions.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *SessionService) Get(id int) (*domain.OrderSession, error) {
	return s.loadSession(id)
}

func (s *SessionService) List() ([]domain.OrderSession, error) {
	return s.sessions.ListSessions()
}

// Close transitions open -> closed, stamping ClosedAt from the server
// clock. Closed is terminal; a second close is rejected.
func (s *SessionService) Close(ctx context.Context, id int, actor *domain.User) (*domain.OrderSession, error) {
	session, err := s.loadSession(id)
	if err != nil {
		return nil, err
	}
	if !CanClose(actor, session) {
		return nil, ErrNotAllowed
	}
	if session.Status == domain.StatusClosed {
		return nil, ErrSessionClosed
	}

	closedAt := time.Now().UTC()
	if err := s.sessions.CloseSession(id, closedAt); err != nil {
		// Lost a close race: someone else already closed it.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionClosed
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	session.Status = domain.StatusClosed
	session.ClosedAt = &closedAt

	if s.publisher != nil {
		event := domain.SessionEvent{
			Type:       domain.EventSessionClosed,
			SessionID:  session.ID,
			UserID:     actor.ID,
			Restaurant: session.Restaurant,
			Timestamp:  closedAt,
		}
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			log.Printf("Warning: failed to publish session_closed event: %v", err)
		}
	}

	return session, nil
}

func (s *SessionService) Summary(id int) (*domain.SessionSummary, error) {
	items, users, err := s.itemsWithUsers(id)
	if err != nil {
		return nil, err
	}

	totals := TotalsByPerson(items, users)
	return &domain.SessionSummary{
		Totals:          totals,
		GrandCount:      GrandCount(totals),
		GrandTotalCents: GrandTotalCents(totals),
	}, nil
}

func (s *SessionService) Transcript(id int) (string, error) {
	session, err := s.loadSession(id)
	if err != nil {
		return "", err
	}
	items, users, err := s.itemsWithUsers(id)
	if err != nil {
		return "", err
	}
	return OrderTranscript(session, items, users), nil
}

func (s *SessionService) ExportCSV(id int) ([]byte, error) {
	session, err := s.loadSession(id)
	if err != nil {
		return nil, err
	}
	items, users, err := s.itemsWithUsers(id)
	if err != nil {
		return nil, err
	}
	return ExportCSV(session, items, users)
}

func (s *SessionService) QRCode(id int) ([]byte, error) {
	if _, err := s.loadSession(id); err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(id)
}

func (s *SessionService) loadSession(id int) (*domain.OrderSession, error) {
	session, err := s.sessions.GetSession(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) itemsWithUsers(sessionID int) ([]domain.OrderItem, map[int]domain.User, error) {
	items, err := s.items.ListItems(sessionID)
	if err != nil {
		return nil, nil, err
	}

	seen := map[int]bool{}
	var userIDs []int
	for _, item := range items {
		if !seen[item.UserID] {
			seen[item.UserID] = true
			userIDs = append(userIDs, item.UserID)
		}
	}
	users, err := s.users.UsersByID(userIDs)
	if err != nil {
		return nil, nil, err
	}
	return items, users, nil
}

var _ SessionServiceInterface = (*SessionService)(nil)
