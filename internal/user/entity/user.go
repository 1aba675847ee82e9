package entity

import "time"

// User represents a full account row in the `users` table. The password
// digest never leaves the repository layer except on the login read path,
// and is never serialized.
type User struct {
	ID           string     `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Workplace    *string    `db:"workplace"`
	Location     *string    `db:"location"`
	Sector       *string    `db:"sector"`
	Seniority    *string    `db:"seniority"`
	Position     *string    `db:"position"`
	IsAdmin      bool       `db:"is_admin"`
	Points       int        `db:"points"`
	Streak       int        `db:"streak"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// AuthView is the projection returned by register/login responses. The
// admin flag is re-derived from the row on every login, never taken from
// the client.
type AuthView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Profile is the owner-visible projection served to the authenticated user.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Workplace *string   `db:"workplace" json:"workplace,omitempty"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Sector    *string   `db:"sector" json:"sector,omitempty"`
	Seniority *string   `db:"seniority" json:"seniority,omitempty"`
	Position  *string   `db:"position" json:"position,omitempty"`
	Points    int       `db:"points" json:"points"`
	Streak    int       `db:"streak" json:"streak"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PublicProfile is the subset visible without authentication, used by the
// public lookup and the alumni directory.
type PublicProfile struct {
	ID        string  `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Workplace *string `db:"workplace" json:"workplace,omitempty"`
	Location  *string `db:"location" json:"location,omitempty"`
	Sector    *string `db:"sector" json:"sector,omitempty"`
	Seniority *string `db:"seniority" json:"seniority,omitempty"`
	Position  *string `db:"position" json:"position,omitempty"`
	Points    int     `db:"points" json:"points"`
	Streak    int     `db:"streak" json:"streak"`
}

// AdminView is the projection served to administrators; unlike
// PublicProfile it includes contact and account-state fields.
type AdminView struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	IsAdmin   bool      `db:"is_admin" json:"isAdmin"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	Points    int       `db:"points" json:"points"`
	Streak    int       `db:"streak" json:"streak"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProfilePatch carries the owner-mutable fields of a PATCH request. Nil
// fields are left untouched by the update.
type ProfilePatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Workplace *string `json:"workplace"`
	Location  *string `json:"location"`
	Sector    *string `json:"sector"`
	Seniority *string `json:"seniority"`
	Position  *string `json:"position"`
}

// AuthView derives the register/login projection from a full row.
func (u *User) AuthView() *AuthView {
	return &AuthView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}
