package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Admin signs in with email and password.
type Admin struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name         string            `gorm:"column:name;not null"`
	Email        string            `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	Status       enums.AdminStatus `gorm:"column:status;not null;default:'active'"`
	LastLoginAt  *time.Time        `gorm:"column:last_login_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Admin) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// Vendor owns products and fulfils vendor orders.
type Vendor struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name            string             `gorm:"column:name;not null"`
	Email           *string            `gorm:"column:email"`
	Phone           string             `gorm:"column:phone;not null;uniqueIndex"`
	BusinessName    string             `gorm:"column:business_name;not null"`
	BusinessAddress *string            `gorm:"column:business_address"`
	Logo            *string            `gorm:"column:logo"`
	CommissionRate  decimal.Decimal    `gorm:"column:commission_rate;type:numeric(5,2);not null"`
	Status          enums.VendorStatus `gorm:"column:status;not null;default:'pending'"`
	FCMToken        *string            `gorm:"column:fcm_token"`
	PhoneVerifiedAt *time.Time         `gorm:"column:phone_verified_at"`
	LastLoginAt     *time.Time         `gorm:"column:last_login_at"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Vendor) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// Customer is created on first successful OTP exchange.
type Customer struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name            string               `gorm:"column:name;not null"`
	Email           *string              `gorm:"column:email"`
	Phone           string               `gorm:"column:phone;not null;uniqueIndex"`
	ProfileImage    *string              `gorm:"column:profile_image"`
	Status          enums.CustomerStatus `gorm:"column:status;not null;default:'active'"`
	FCMToken        *string              `gorm:"column:fcm_token"`
	PhoneVerifiedAt *time.Time           `gorm:"column:phone_verified_at"`
	LastLoginAt     *time.Time           `gorm:"column:last_login_at"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Customer) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// DeliveryPartner is registered by an admin and verified before login.
type DeliveryPartner struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Email          *string             `gorm:"column:email"`
	Phone          string              `gorm:"column:phone;not null;uniqueIndex"`
	VehicleType    enums.VehicleType   `gorm:"column:vehicle_type;not null"`
	VehicleNumber  *string             `gorm:"column:vehicle_number"`
	LicenseNumber  *string             `gorm:"column:license_number"`
	Status         enums.PartnerStatus `gorm:"column:status;not null;default:'pending'"`
	IsOnline       bool                `gorm:"column:is_online;not null;default:false"`
	CurrentLat     *float64            `gorm:"column:current_lat"`
	CurrentLng     *float64            `gorm:"column:current_lng"`
	LastLocationAt *time.Time          `gorm:"column:last_location_at"`
	Rating         decimal.Decimal     `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	FCMToken       *string             `gorm:"column:fcm_token"`
	LastLoginAt    *time.Time          `gorm:"column:last_login_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *DeliveryPartner) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// PartnerVerification is an append-only log of admin verification decisions.
type PartnerVerification struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID uuid.UUID           `gorm:"column:partner_id;type:uuid;not null"`
	AdminID   uuid.UUID           `gorm:"column:admin_id;type:uuid;not null"`
	Status    enums.PartnerStatus `gorm:"column:status;not null"`
	Notes     *string             `gorm:"column:notes"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (m *PartnerVerification) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// DeliveryLocation is an append-only position ping.
type DeliveryLocation struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID    uuid.UUID  `gorm:"column:partner_id;type:uuid;not null"`
	TaskID       *uuid.UUID `gorm:"column:task_id;type:uuid"`
	Lat          float64    `gorm:"column:lat;not null"`
	Lng          float64    `gorm:"column:lng;not null"`
	Speed        *float64   `gorm:"column:speed"`
	BatteryLevel *int       `gorm:"column:battery_level"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (m *DeliveryLocation) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }

// OTPCode holds the outstanding one-time code for a (role, mobile) pair.
// PendingProfile carries self-registration fields until the code is exchanged.
type OTPCode struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Role           enums.Role        `gorm:"column:role;not null"`
	Mobile         string            `gorm:"column:mobile;not null"`
	Code           *string           `gorm:"column:code"`
	ExpiresAt      time.Time         `gorm:"column:expires_at;not null"`
	ConsumedAt     *time.Time        `gorm:"column:consumed_at"`
	PendingProfile map[string]string `gorm:"column:pending_profile;type:jsonb;serializer:json"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (OTPCode) TableName() string { return "otp_codes" }

func (m *OTPCode) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
