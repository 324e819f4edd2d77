package model

import "strings"

// User is a registered member. FriendIDs holds the outbound friendship
// edges; the relationship service keeps both directions in step.
type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email" validate:"notblank,email"`
	Login     string  `json:"login" validate:"notblank,nowhitespace"`
	Name      string  `json:"name"`
	Birthday  Date    `json:"birthday" validate:"required,pastorpresent"`
	FriendIDs []int64 `json:"friendIds"`
}

// ApplyDefaultName sets Name to Login when Name is blank.
func (u *User) ApplyDefaultName() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}
