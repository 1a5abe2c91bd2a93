package models

import "time"

// User is an author on the blog. Credentials live in the Password hash or,
// for accounts created through Firebase, the FirebaseUID link.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string    `json:"-" gorm:"size:254;index"`       // kept out of cached pages
	Password    string    `json:"-"`                             // bcrypt hash, never serialized
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"` // nil for local accounts
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (u User) String() string {
	return u.Username
}

// SignupForm defines the form body for creating a local account
type SignupForm struct {
	Username        string `form:"username" validate:"required,max=150,username,unreserved"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Password        string `form:"password" validate:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginForm defines the form body for signing in with a local account
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// FirebaseLoginForm carries the ID token obtained by the browser from Firebase Auth
type FirebaseLoginForm struct {
	IDToken string `form:"id_token" validate:"required"`
}
