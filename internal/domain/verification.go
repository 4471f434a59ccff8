package domain

type SendCodeRequest struct {
	Email string `json:"email"`
}
