package core

import "time"

type (
	// User is the authenticated owner of drafts and sessions. Subject is
	// the stable identity claim carried in the JWT.
	User struct {
		Subject   string    `json:"subject"`
		Login     string    `json:"login"`
		Email     string    `json:"email"`
		AvatarURL string    `json:"avatarUrl"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}
)
