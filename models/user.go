package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model

	Username string          `gorm:"uniqueIndex;size:64" json:"username"`
	Password string          `gorm:"size:128" json:"-"`
	Balance  decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"balance"`
	Role     string          `gorm:"size:16;default:user" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
