package models

import "time"

// Role values for a user record. Role is never empty: signup always
// assigns RoleUser, demo seeding assigns the rest.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// Key prefixes for records in the KV store. A user is keyed by email,
// content records by id.
const (
	UserKeyPrefix    = "user:"
	SessionKeyPrefix = "session:"
	EventKeyPrefix   = "event:"
	JobKeyPrefix     = "job:"
	NewsKeyPrefix    = "news:"
)

// User is the stored user record, including the bcrypt password hash.
// Only User.Public() views ever leave the service.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Class        string   `json:"class,omitempty"`
	Major        string   `json:"major,omitempty"`
	Company      string   `json:"company,omitempty"`
	Position     string   `json:"position,omitempty"`
	Location     string   `json:"location,omitempty"`
	Industries   []string `json:"industries,omitempty"`
}

// PublicUser is the user record with credentials stripped. It is what
// login/signup/verify return and what session records carry.
type PublicUser struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Class      string   `json:"class,omitempty"`
	Major      string   `json:"major,omitempty"`
	Company    string   `json:"company,omitempty"`
	Position   string   `json:"position,omitempty"`
	Location   string   `json:"location,omitempty"`
	Industries []string `json:"industries,omitempty"`
}

// Public returns the credential-free view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Class:      u.Class,
		Major:      u.Major,
		Company:    u.Company,
		Position:   u.Position,
		Location:   u.Location,
		Industries: u.Industries,
	}
}

// IsModerator reports whether the user may access moderator-gated routes.
func (u PublicUser) IsModerator() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

// Session is the record stored at session:<token>.
type Session struct {
	User     PublicUser `json:"user"`
	IssuedAt time.Time  `json:"issuedAt"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ProfileUpdate is the JSON body for PUT /auth/profile. Nil fields are
// left untouched. Email, role, and password have no counterpart here,
// so they cannot be changed through a profile update no matter what the
// client sends.
type ProfileUpdate struct {
	Name       *string   `json:"name"`
	Class      *string   `json:"class"`
	Major      *string   `json:"major"`
	Company    *string   `json:"company"`
	Position   *string   `json:"position"`
	Location   *string   `json:"location"`
	Industries *[]string `json:"industries"`
}

// Apply merges the non-nil patch fields onto the user record.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Class != nil {
		u.Class = *p.Class
	}
	if p.Major != nil {
		u.Major = *p.Major
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	if p.Position != nil {
		u.Position = *p.Position
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Industries != nil {
		u.Industries = *p.Industries
	}
}

// AuthResponse is the success body for login and signup.
type AuthResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}
