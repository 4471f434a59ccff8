package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_View(t *testing.T) {
	u := &User{UserID: "u1", Username: "stud_01", Gender: GenderMale, Status: StatusActive}
	v := u.View()
	assert.Equal(t, "u1", v.ID)
	assert.Equal(t, "male", v.GenderText)
	assert.Equal(t, "active", v.StatusText)
	assert.Equal(t, DefaultAvatarURL, v.Avatar)
	assert.Empty(t, v.AvatarURL)

	u.AvatarURL = "https://cdn/a.png"
	u.Status = StatusDisabled
	u.Gender = 9
	v = u.View()
	assert.Equal(t, "https://cdn/a.png", v.Avatar)
	assert.Equal(t, "disabled", v.StatusText)
	assert.Equal(t, "unknown", v.GenderText)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindRateLimited, KindOf(&RateLimitError{Scope: "x", Remaining: 3}))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("username taken: %w", ErrConflict)))
	assert.Equal(t, KindInvalidCode, KindOf(fmt.Errorf("code expired: %w", ErrInvalidCode)))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
}
