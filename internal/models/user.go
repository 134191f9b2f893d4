package models

import "time"

// UserModel stores the single owner account.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"        gorm:"not null"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// APIToken is a long-lived bearer token for headless clients.
type APIToken struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	Name      string     `json:"name"`
	Token     string     `json:"token"      gorm:"uniqueIndex;not null"`
	ExpiredAt *time.Time `json:"expired_at"`
}

func (APIToken) TableName() string { return "api_tokens" }
