package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusDisabled = 0
	StatusActive   = 1
)

const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// DefaultAvatarURL is shown for users without an uploaded avatar.
const DefaultAvatarURL = "/api/avatars/default-avatar.png"

type User struct {
	UserID       string         `json:"id" dynamodbav:"user_id"`
	Username     string         `json:"username" dynamodbav:"username"`
	Email        string         `json:"email" dynamodbav:"email"`
	PasswordHash string         `json:"-" dynamodbav:"password_hash"`
	Gender       int            `json:"gender" dynamodbav:"gender"`
	AvatarURL    string         `json:"avatar_url,omitempty" dynamodbav:"avatar_url,omitempty"`
	Status       int            `json:"status" dynamodbav:"status"`
	Role         string         `json:"role" dynamodbav:"role"`
	StudentID    string         `json:"student_id,omitempty" dynamodbav:"student_id,omitempty"`
	Major        string         `json:"major,omitempty" dynamodbav:"major,omitempty"`
	College      string         `json:"college,omitempty" dynamodbav:"college,omitempty"`
	Grade        string         `json:"grade,omitempty" dynamodbav:"grade,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at" dynamodbav:"created_at"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
}

func (u *User) GenderText() string {
	switch u.Gender {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unknown"
	}
}

func (u *User) StatusText() string {
	if u.Status == StatusActive {
		return "active"
	}
	return "disabled"
}

// Avatar returns the avatar URL, falling back to the default image.
func (u *User) Avatar() string {
	if u.AvatarURL == "" {
		return DefaultAvatarURL
	}
	return u.AvatarURL
}

// RegisterRequest is the verify-and-register payload.
type RegisterRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Email      string  `json:"email"`
	VerifyCode string  `json:"verifyCode"`
	StudentID  *string `json:"studentId"`
	Major      *string `json:"major"`
	College    *string `json:"college"`
	Grade      *string `json:"grade"`
	Gender     *int    `json:"gender"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserView is the client-facing user shape with derived display fields.
type UserView struct {
	ID          string         `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Gender      int            `json:"gender"`
	GenderText  string         `json:"genderText"`
	AvatarURL   string         `json:"avatarUrl,omitempty"`
	Avatar      string         `json:"avatar"`
	Status      int            `json:"status"`
	StatusText  string         `json:"statusText"`
	Role        string         `json:"role"`
	StudentID   string         `json:"studentId,omitempty"`
	Major       string         `json:"major,omitempty"`
	College     string         `json:"college,omitempty"`
	Grade       string         `json:"grade,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
}

func (u *User) View() UserView {
	return UserView{
		ID:          u.UserID,
		Username:    u.Username,
		Email:       u.Email,
		Gender:      u.Gender,
		GenderText:  u.GenderText(),
		AvatarURL:   u.AvatarURL,
		Avatar:      u.Avatar(),
		Status:      u.Status,
		StatusText:  u.StatusText(),
		Role:        u.Role,
		StudentID:   u.StudentID,
		Major:       u.Major,
		College:     u.College,
		Grade:       u.Grade,
		Metadata:    u.Metadata,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
