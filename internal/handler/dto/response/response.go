package response

import "github.com/google/uuid"

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
