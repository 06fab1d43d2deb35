package models

import (
	"time"
)

type User struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement"`
	Name               string  `gorm:"type:varchar(100);not null"`
	Email              string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone              string  `gorm:"type:varchar(32);not null"`
	Address            *string `gorm:"type:text"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"`
	Role               string  `gorm:"type:varchar(20);not null;index"`
	IsApproved         bool    `gorm:"not null;default:false"`
	RegistrationStep   int     `gorm:"not null;default:0"`
	RegistrationStatus string  `gorm:"type:varchar(32);not null;index"`
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
