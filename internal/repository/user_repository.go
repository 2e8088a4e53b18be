package repository

import (
	"context"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
)

type UserRepository interface {
	// Create stores the user together with an empty preferences record
	// (seekers) or an empty unverified helper profile (helpers).
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id int, role domain.Role) error
}
