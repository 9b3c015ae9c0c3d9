package tests

import (
	"database/sql"
	"testing"

	"hive-food/internal/auth"
	"hive-food/internal/domain"
	"hive-food/internal/mocks"
	"hive-food/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestUserService_Authenticate(t *testing.T) {
	hash := hashFor(t, "correct horse")

	tests := []struct {
		name          string
		email         string
		password      string
		prepareMocks  func(repo *mocks.UserRepository)
		expectedError error
	}{
		{
			name:     "success",
			email:    "Ana@Example.com ",
			password: "correct horse",
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUserByEmail", "ana@example.com").
					Return(&domain.User{ID: 1, Email: "ana@example.com", PasswordHash: hash}, nil).Once()
			},
		},
		{
			name:     "wrong_password",
			email:    "ana@example.com",
			password: "nope",
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUserByEmail", "ana@example.com").
					Return(&domain.User{ID: 1, PasswordHash: hash}, nil).Once()
			},
			expectedError: service.ErrBadCredentials,
		},
		{
			name:     "unknown_email",
			email:    "ghost@example.com",
			password: "whatever",
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUserByEmail", "ghost@example.com").Return(nil, sql.ErrNoRows).Once()
			},
			expectedError: service.ErrBadCredentials,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewUserRepository(t)
			testCase.prepareMocks(repo)

			svc := service.NewUserService(repo, nil)
			user, err := svc.Authenticate(testCase.email, testCase.password)

			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, user.ID)
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name           string
		allowedDomains []string
		email          string
		password       string
		prepareMocks   func(repo *mocks.UserRepository)
		expectedError  error
	}{
		{
			name:     "success",
			email:    " New@Example.com ",
			password: "long enough",
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUserByEmail", "new@example.com").Return(nil, sql.ErrNoRows).Once()
				repo.On("CreateUser", mock.Anything).Return(nil).Once()
			},
		},
		{
			name:          "weak_password",
			email:         "new@example.com",
			password:      "short",
			prepareMocks:  func(repo *mocks.UserRepository) {},
			expectedError: service.ErrWeakPassword,
		},
		{
			name:     "duplicate_email",
			email:    "taken@example.com",
			password: "long enough",
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUserByEmail", "taken@example.com").
					Return(&domain.User{ID: 2, Email: "taken@example.com"}, nil).Once()
			},
			expectedError: service.ErrEmailTaken,
		},
		{
			name:           "domain_not_allowed",
			allowedDomains: []string{"corp.example"},
			email:          "new@gmail.com",
			password:       "long enough",
			prepareMocks:   func(repo *mocks.UserRepository) {},
			expectedError:  service.ErrDomainNotAllowed,
		},
		{
			name:           "allowed_domain_passes",
			allowedDomains: []string{"corp.example"},
			email:          "new@corp.example",
			password:       "long enough",
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUserByEmail", "new@corp.example").Return(nil, sql.ErrNoRows).Once()
				repo.On("CreateUser", mock.Anything).Return(nil).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewUserRepository(t)
			testCase.prepareMocks(repo)

			svc := service.NewUserService(repo, testCase.allowedDomains)
			user, err := svc.CreateUser("New User", testCase.email, testCase.password, false)

			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, testCase.password, user.PasswordHash)
		})
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	hash := hashFor(t, "old password")
	account := func() *domain.User {
		return &domain.User{ID: 1, PasswordHash: hash}
	}

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUser", 1).Return(account(), nil).Once()
		repo.On("UpdatePassword", 1, mock.Anything).Return(nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.NoError(t, svc.ChangePassword(1, "old password", "new password", "new password"))
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUser", 1).Return(account(), nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.ErrorIs(t, svc.ChangePassword(1, "wrong", "new password", "new password"), service.ErrBadCredentials)
	})

	t.Run("confirmation_mismatch", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUser", 1).Return(account(), nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.ErrorIs(t, svc.ChangePassword(1, "old password", "new password", "different"), service.ErrPasswordMismatch)
	})

	t.Run("weak_new_password", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUser", 1).Return(account(), nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.ErrorIs(t, svc.ChangePassword(1, "old password", "short", "short"), service.ErrWeakPassword)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	admin := &domain.User{ID: 1, IsAdmin: true}

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("DeleteUser", 2).Return(int64(1), nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.NoError(t, svc.DeleteUser(admin, 2))
	})

	t.Run("self_deletion_rejected", func(t *testing.T) {
		svc := service.NewUserService(mocks.NewUserRepository(t), nil)
		assert.ErrorIs(t, svc.DeleteUser(admin, 1), service.ErrSelfTarget)
	})

	t.Run("missing_target", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("DeleteUser", 99).Return(int64(0), nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.ErrorIs(t, svc.DeleteUser(admin, 99), service.ErrNotFound)
	})
}

func TestUserService_ToggleAdmin(t *testing.T) {
	admin := &domain.User{ID: 1, IsAdmin: true}

	t.Run("promote", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUser", 2).Return(&domain.User{ID: 2}, nil).Once()
		repo.On("SetAdmin", 2, true).Return(nil).Once()

		svc := service.NewUserService(repo, nil)
		target, err := svc.ToggleAdmin(admin, 2)
		require.NoError(t, err)
		assert.True(t, target.IsAdmin)
	})

	t.Run("demote", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUser", 2).Return(&domain.User{ID: 2, IsAdmin: true}, nil).Once()
		repo.On("SetAdmin", 2, false).Return(nil).Once()

		svc := service.NewUserService(repo, nil)
		target, err := svc.ToggleAdmin(admin, 2)
		require.NoError(t, err)
		assert.False(t, target.IsAdmin)
	})

	t.Run("self_toggle_rejected", func(t *testing.T) {
		svc := service.NewUserService(mocks.NewUserRepository(t), nil)
		_, err := svc.ToggleAdmin(admin, 1)
		assert.ErrorIs(t, err, service.ErrSelfTarget)
	})
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	t.Run("seeds_when_missing", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUserByEmail", "admin@example.com").Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateUser", mock.MatchedBy(func(u *domain.User) bool {
			return u.IsAdmin && u.Email == "admin@example.com"
		})).Return(nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.NoError(t, svc.EnsureBootstrapAdmin("admin@example.com", "bootstrap pass", "Admin"))
	})

	t.Run("no_op_when_present", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetUserByEmail", "admin@example.com").Return(&domain.User{ID: 1}, nil).Once()

		svc := service.NewUserService(repo, nil)
		assert.NoError(t, svc.EnsureBootstrapAdmin("admin@example.com", "bootstrap pass", "Admin"))
	})
}
