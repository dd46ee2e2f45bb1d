package models

import "time"

// Profile is a viewer persona under one account.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	AvatarKey string    `json:"avatarKey"`
	IsKid     bool      `json:"isKid"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateProfileRequest is the request body for creating a profile.
type CreateProfileRequest struct {
	Name      string `json:"name"`
	AvatarKey string `json:"avatarKey"`
	IsKid     bool   `json:"isKid"`
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarKey *string `json:"avatarKey"`
	IsKid     *bool   `json:"isKid"`
}
