// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'buyer'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	FirstName    string     `json:"first_name" gorm:"size:30"`
	LastName     string     `json:"last_name" gorm:"size:30"`
	Phone        string     `json:"phone" gorm:"size:16"`
	City         string     `json:"city" gorm:"size:40"`
	Address      string     `json:"address" gorm:"size:70"`
	AvatarURL    string     `json:"avatar_url" gorm:"size:512"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	ResetTokenHash      string     `json:"-" gorm:"size:64;index"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Relationships
	Stores []Store `json:"stores,omitempty" gorm:"foreignKey:OwnerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// IsSeller reports whether the user may manage stores and listings.
// Managers and admins keep seller rights so they can act on any store.
func (u *User) IsSeller() bool {
	return u.Role == UserRoleSeller || u.Role == UserRoleManager || u.Role == UserRoleAdmin
}

func (u *User) IsManager() bool {
	return u.Role == UserRoleManager || u.Role == UserRoleAdmin
}
