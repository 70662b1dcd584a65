package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the locally stored profile of a Firebase account, used for
// reporter display info and the admin role.
type User struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Role        string    `json:"role" firestore:"role"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ReporterInfo is the public projection of a User shown next to reports.
type ReporterInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

func (u *User) ReporterInfo() ReporterInfo {
	name := u.DisplayName
	if name == "" {
		name = "Anonymous"
	}
	return ReporterInfo{ID: u.ID, DisplayName: name}
}

// TokenClaims is what the identity provider vouches for after verifying a token.
type TokenClaims struct {
	UID         string
	Email       string
	DisplayName string
	Role        string
}

// Identity is the verified caller attached to a request by the auth middleware.
type Identity struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
