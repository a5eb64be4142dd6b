package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIKeys maps a provider name (openai, claude, perplexity, gemini,
// stability, midjourney) to the user's opaque credential.
type APIKeys map[string]string

// SocialAccount is one connected social platform account.
type SocialAccount struct {
	Platform     Platform   `bson:"platform" json:"platform"`
	Connected    bool       `bson:"connected" json:"connected"`
	AccessToken  string     `bson:"access_token" json:"-"`
	RefreshToken string     `bson:"refresh_token" json:"-"`
	TokenExpiry  *time.Time `bson:"token_expiry,omitempty" json:"token_expiry,omitempty"`
	Username     string     `bson:"username" json:"username"`
}

// UserSettings holds generation defaults. Token refresh and notification
// delivery are handled outside this core.
type UserSettings struct {
	DefaultProvider string `bson:"default_provider" json:"default_provider"`
	DefaultTone     string `bson:"default_tone" json:"default_tone"`
	AutoApprove     bool   `bson:"auto_approve" json:"auto_approve"`
}

// User represents an account owning content, schedules and analytics.
// Collection: users
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Settings       UserSettings       `bson:"settings" json:"settings"`
	APIKeys        APIKeys            `bson:"api_keys" json:"-"`
	SocialAccounts []SocialAccount    `bson:"social_accounts" json:"social_accounts"`
}

// ConnectedAccount returns the connected account for a platform, if any.
func (u *User) ConnectedAccount(platform Platform) (SocialAccount, bool) {
	for _, a := range u.SocialAccounts {
		if a.Platform == platform && a.Connected {
			return a, true
		}
	}
	return SocialAccount{}, false
}
