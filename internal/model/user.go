package model

import (
	"time"
)

type UserRole string

const (
	Developer UserRole = "developer"
	Admin     UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name              string    `gorm:"size:100;not null" json:"name"`
	Email             string    `gorm:"size:100;unique;not null" json:"email"`
	Password          string    `gorm:"size:100;not null" json:"-"`
	Role              UserRole  `gorm:"type:varchar(20);default:'developer'" json:"role"`
	DeveloperApproved bool      `gorm:"default:false" json:"developerApproved"` // 开发者资质审核通过后才可投稿
	Disabled          bool      `gorm:"default:false" json:"disabled"`
	LastLogin         time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen          time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// OwnerInfo 审核队列展示用的开发者信息
type OwnerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
