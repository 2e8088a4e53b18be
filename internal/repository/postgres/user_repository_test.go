package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "password_hash", "name", "role", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		role        domain.Role
		mockQuery   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "seeker gets preferences row",
			role: domain.RoleSeeker,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("sam@example.com", "hash", "Sam", "seeker").
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
				mock.ExpectExec(`INSERT INTO seeker_preferences \(user_id\) VALUES \(\$1\)`).
					WithArgs(5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "helper gets unverified profile row",
			role: domain.RoleHelper,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
				mock.ExpectExec(`INSERT INTO helper_profiles \(user_id\) VALUES \(\$1\)`).
					WithArgs(5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate email",
			role: domain.RoleSeeker,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			expectedErr: domain.ErrUserAlreadyExists,
		},
		{
			name: "profile insert fails",
			role: domain.RoleHelper,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
				mock.ExpectExec(`INSERT INTO helper_profiles`).
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			expectedErr: errors.New("failed to create helper profile: disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mockQuery(mock)

			user := &domain.User{Email: "sam@example.com", PasswordHash: "hash", Name: "Sam", Role: tt.role}
			err := NewUserRepository(db).Create(context.Background(), user)

			switch {
			case tt.expectedErr == nil:
				require.NoError(t, err)
				assert.Equal(t, 5, user.ID)
				assert.Equal(t, now, user.CreatedAt)
			case errors.Is(tt.expectedErr, domain.ErrUserAlreadyExists):
				assert.ErrorIs(t, err, tt.expectedErr)
			default:
				assert.EqualError(t, err, tt.expectedErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("sam@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(5, "sam@example.com", "hash", "Sam", "seeker", now, now))

		user, err := NewUserRepository(db).GetByEmail(context.Background(), "sam@example.com")
		require.NoError(t, err)
		assert.Equal(t, 5, user.ID)
		assert.Equal(t, domain.RoleSeeker, user.Role)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WillReturnRows(sqlmock.NewRows(userColumns))

		user, err := NewUserRepository(db).GetByEmail(context.Background(), "nobody@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := NewUserRepository(db).GetByID(context.Background(), 9)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole(t *testing.T) {
	tests := []struct {
		name        string
		result      driver.Result
		expectedErr error
	}{
		{"updated", sqlmock.NewResult(0, 1), nil},
		{"missing", sqlmock.NewResult(0, 0), domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(`UPDATE users\s+SET role = \$1, updated_at = NOW\(\)\s+WHERE id = \$2`).
				WithArgs("admin", 4).
				WillReturnResult(tt.result)

			err := NewUserRepository(db).UpdateRole(context.Background(), 4, domain.RoleAdmin)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
