package models

// Role values stored on User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the primary account model.
type User struct {
	Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string `gorm:"size:50;default:user" json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
