package models

import "time"

// VerificationStatus of a vendor account — set by admins
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Address is a postal address embedded wherever one is needed
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark"`
}

// Vendor is a home-kitchen account. New vendors start inactive and
// unverified until an admin approves them.
type Vendor struct {
	ID                  uint               `json:"id" gorm:"primaryKey"`
	Name                string             `json:"name" gorm:"not null"`
	Email               string             `json:"email" gorm:"uniqueIndex;not null"`
	Phone               string             `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash        string             `json:"-" gorm:"not null"`
	Role                Role               `json:"role" gorm:"not null;default:'vendor'"`
	Avatar              string             `json:"avatar"`
	BusinessName        string             `json:"business_name" gorm:"not null"`
	BusinessDescription string             `json:"business_description"`
	KitchenAddress      Address            `json:"kitchen_address" gorm:"embedded;embeddedPrefix:kitchen_"`
	MenuItems           []MenuItem         `json:"menu_items,omitempty" gorm:"foreignKey:VendorID"`
	SubscriptionPlans   []SubscriptionPlan `json:"subscription_plans,omitempty" gorm:"foreignKey:VendorID"`
	IsActive            bool               `json:"is_active" gorm:"default:false"`
	IsVerified          bool               `json:"is_verified" gorm:"default:false"`
	VerificationStatus  VerificationStatus `json:"verification_status" gorm:"default:'pending'"`
	RatingAverage       float64            `json:"rating_average" gorm:"default:0"`
	RatingCount         int                `json:"rating_count" gorm:"default:0"`
	TotalOrders         int                `json:"total_orders" gorm:"default:0"`
	TotalEarnings       float64            `json:"total_earnings" gorm:"default:0"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// FoldRating folds exactly one new 1–5 rating into the running
// (average, count) pair. The average is never recomputed from raw history.
func (v *Vendor) FoldRating(rating float64) {
	total := v.RatingAverage*float64(v.RatingCount) + rating
	v.RatingCount++
	v.RatingAverage = total / float64(v.RatingCount)
}

type MenuItem struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	VendorID        uint      `json:"vendor_id" gorm:"not null"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	Price           float64   `json:"price" gorm:"not null"`
	Category        string    `json:"category"` // breakfast, lunch, dinner, snacks
	CuisineType     string    `json:"cuisine_type"`
	IsVegetarian    bool      `json:"is_vegetarian" gorm:"default:true"`
	IsVegan         bool      `json:"is_vegan" gorm:"default:false"`
	SpiceLevel      string    `json:"spice_level" gorm:"default:'medium'"`
	Image           string    `json:"image"`
	IsAvailable     bool      `json:"is_available" gorm:"default:true"`
	PreparationTime int       `json:"preparation_time_minutes" gorm:"default:30"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SubscriptionPlan struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	VendorID      uint      `json:"vendor_id" gorm:"not null"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Duration      string    `json:"duration" gorm:"not null"` // daily, weekly, monthly
	Price         float64   `json:"price" gorm:"not null"`
	MealsIncluded string    `json:"meals_included"` // comma separated: breakfast,lunch,dinner
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
