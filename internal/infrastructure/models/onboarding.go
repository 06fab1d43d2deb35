package models

import (
	"time"
)

type SellerProfile struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"`
	UserID          uint    `gorm:"not null;uniqueIndex"`
	User            *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StoreName       string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	BusinessType    string  `gorm:"type:varchar(20);not null"`
	BusinessAddress *string `gorm:"type:text"`
	TaxID           *string `gorm:"type:varchar(50)"`
	Status          string  `gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason *string `gorm:"type:text"`
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SellerDocument struct {
	ID                         uint    `gorm:"primaryKey;autoIncrement"`
	UserID                     uint    `gorm:"not null;uniqueIndex"`
	User                       *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	GovernmentID               string  `gorm:"type:varchar(512);not null"`
	GovernmentIDVerified       bool    `gorm:"not null;default:false"`
	SelfieVerification         string  `gorm:"type:varchar(512);not null"`
	SelfieVerificationVerified bool    `gorm:"not null;default:false"`
	BusinessLicense            *string `gorm:"type:varchar(512)"`
	BusinessLicenseVerified    bool    `gorm:"not null;default:false"`
	TaxCertificate             *string `gorm:"type:varchar(512)"`
	TaxCertificateVerified     bool    `gorm:"not null;default:false"`
	VerificationStatus         string  `gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason            *string `gorm:"type:text"`
	ReviewedAt                 *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

type SellerBankAccount struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement"`
	UserID             uint    `gorm:"not null;uniqueIndex"`
	User               *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BankName           string  `gorm:"type:varchar(100);not null"`
	AccountHolderName  string  `gorm:"type:varchar(100);not null"`
	AccountNumber      string  `gorm:"type:varchar(34);not null"`
	BranchCode         *string `gorm:"type:varchar(20)"`
	IsVerified         bool    `gorm:"not null;default:false"`
	VerificationStatus string  `gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason    *string `gorm:"type:text"`
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type RiderProfile struct {
	ID                  uint    `gorm:"primaryKey;autoIncrement"`
	UserID              uint    `gorm:"not null;uniqueIndex"`
	User                *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VehicleType         string  `gorm:"type:varchar(20);not null"`
	PlateNumber         string  `gorm:"type:varchar(20);not null"`
	VehicleRegistration string  `gorm:"type:varchar(512);not null"`
	VehicleInsurance    string  `gorm:"type:varchar(512);not null"`
	DriversLicense      string  `gorm:"type:varchar(512);not null"`
	Status              string  `gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason     *string `gorm:"type:text"`
	ReviewedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type RiderDocument struct {
	ID                   uint    `gorm:"primaryKey;autoIncrement"`
	UserID               uint    `gorm:"not null;uniqueIndex"`
	User                 *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	GovernmentID         string  `gorm:"type:varchar(512);not null"`
	GovernmentIDVerified bool    `gorm:"not null;default:false"`
	LiveSelfie           string  `gorm:"type:varchar(512);not null"`
	LiveSelfieVerified   bool    `gorm:"not null;default:false"`
	VerificationStatus   string  `gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason      *string `gorm:"type:text"`
	ReviewedAt           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type RiderBankAccount struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement"`
	UserID             uint    `gorm:"not null;uniqueIndex"`
	User               *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BankName           string  `gorm:"type:varchar(100);not null"`
	AccountHolderName  string  `gorm:"type:varchar(100);not null"`
	AccountNumber      string  `gorm:"type:varchar(34);not null"`
	WalletAddress      *string `gorm:"type:varchar(42)"`
	IsVerified         bool    `gorm:"not null;default:false"`
	VerificationStatus string  `gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason    *string `gorm:"type:text"`
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
