package http

import (
	"context"
	"io"
	"time"

	"github.com/smart-campus-api/internal/domain"
)

// UserRepository is the user store the router's services share.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Count(ctx context.Context) (int64, error)
}

// ObjectStore is the avatar storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}
