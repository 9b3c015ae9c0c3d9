package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"hive-food/internal/auth"
	"hive-food/internal/domain"
)

const minPasswordLength = 8

type UserServiceInterface interface {
	Authenticate(email, password string) (*domain.User, error)
	Get(id int) (*domain.User, error)
	ChangePassword(userID int, current, newPassword, confirm string) error
	CreateUser(fullName, email, password string, isAdmin bool) (*domain.User, error)
	ListUsers() ([]domain.User, error)
	DeleteUser(actor *domain.User, targetID int) error
	ToggleAdmin(actor *domain.User, targetID int) (*domain.User, error)
}

type UserService struct {
	repo           UserRepository
	allowedDomains []string
}

func NewUserService(repo UserRepository, allowedDomains []string) *UserService {
	return &UserService{repo: repo, allowedDomains: allowedDomains}
}

func (s *UserService) Authenticate(email, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByEmail(normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return user, nil
}

func (s *UserService) Get(id int) (*domain.User, error) {
	user, err := s.repo.GetUser(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *UserService) ChangePassword(userID int, current, newPassword, confirm string) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(current, user.PasswordHash) {
		return ErrBadCredentials
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(userID, hash)
}

func (s *UserService) CreateUser(fullName, email, password string, isAdmin bool) (*domain.User, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if !s.emailDomainAllowed(email) {
		return nil, ErrDomainNotAllowed
	}
	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]domain.User, error) {
	return s.repo.ListUsers()
}

func (s *UserService) DeleteUser(actor *domain.User, targetID int) error {
	if actor.ID == targetID {
		return ErrSelfTarget
	}
	affected, err := s.repo.DeleteUser(targetID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) ToggleAdmin(actor *domain.User, targetID int) (*domain.User, error) {
	if actor.ID == targetID {
		return nil, ErrSelfTarget
	}
	target, err := s.Get(targetID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAdmin(targetID, !target.IsAdmin); err != nil {
		return nil, err
	}
	target.IsAdmin = !target.IsAdmin
	return target, nil
}

// EnsureBootstrapAdmin seeds the initial administrator account when it
// does not exist yet. Called once at startup.
func (s *UserService) EnsureBootstrapAdmin(email, password, fullName string) error {
	email = normalizeEmail(email)
	_, err := s.repo.GetUserByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	admin := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := s.repo.CreateUser(admin); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}
	log.Printf("Seeded bootstrap admin %s", email)
	return nil
}

// An empty allowlist permits every domain.
func (s *UserService) emailDomainAllowed(email string) bool {
	if len(s.allowedDomains) == 0 {
		return true
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	for _, domain := range s.allowedDomains {
		if parts[1] == domain {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ UserServiceInterface = (*UserService)(nil)
