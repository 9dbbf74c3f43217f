package model

import "time"

type User struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Identity is a verified external identity (Google or Apple) linked to a user.
type Identity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	Picture        string
}

type Session struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
}

// Preferences hold a user's news interests. AIProfile is free text embedded
// verbatim in the scoring prompt; Interests seed the initial search query.
// An incomplete profile triggers topic-fallback curation.
type Preferences struct {
	AIProfile string
	Interests []string
	Completed bool
	UpdatedAt time.Time
}
