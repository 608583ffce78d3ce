package models

import (
	"encoding/json"
	"time"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleDonor       Role = "donor"
	RoleBeneficiary Role = "beneficiary"
	RoleAdmin       Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleDonor, RoleBeneficiary, RoleAdmin:
		return true
	}
	return false
}

// FoodStatus is the lifecycle status of a food item.
type FoodStatus string

const (
	FoodAvailable FoodStatus = "available"
	FoodRequested FoodStatus = "requested"
	FoodAccepted  FoodStatus = "accepted"
	FoodPicked    FoodStatus = "picked"
	FoodCompleted FoodStatus = "completed"
	FoodCancelled FoodStatus = "cancelled"
)

// RequestStatus is the lifecycle status of a pickup request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestPicked    RequestStatus = "picked"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// VerificationStatus is the lifecycle status of a verification request.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Unit is the measurement unit of a food item quantity.
type Unit string

const (
	UnitServings Unit = "servings"
	UnitPieces   Unit = "pieces"
	UnitKg       Unit = "kg"
	UnitLbs      Unit = "lbs"
	UnitBoxes    Unit = "boxes"
	UnitBags     Unit = "bags"
)

// ValidUnit reports whether u is one of the known units.
func ValidUnit(u Unit) bool {
	switch u {
	case UnitServings, UnitPieces, UnitKg, UnitLbs, UnitBoxes, UnitBags:
		return true
	}
	return false
}

// NotificationType classifies notifications for client rendering.
type NotificationType string

const (
	NotifyNewListing      NotificationType = "new_listing"
	NotifyPickupRequest   NotificationType = "pickup_request"
	NotifyRequestAccepted NotificationType = "request_accepted"
	NotifyRequestRejected NotificationType = "request_rejected"
	NotifyPickupCompleted NotificationType = "pickup_completed"
)

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Verified     bool      `json:"verified"`
	DeviceToken  *string   `json:"device_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FoodItem represents a donor's surplus food listing.
// Distance is computed per-query for beneficiary listings and never persisted.
type FoodItem struct {
	ID          string     `json:"id"`
	DonorID     string     `json:"donor_id"`
	DonorName   string     `json:"donor_name,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Quantity    int        `json:"quantity"`
	Unit        Unit       `json:"unit"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	PickupStart time.Time  `json:"pickup_start"`
	PickupEnd   time.Time  `json:"pickup_end"`
	Location    *string    `json:"location,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Status      FoodStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Distance    *float64   `json:"distance,omitempty"`
}

// PickupRequest represents one beneficiary's claim against a food item.
type PickupRequest struct {
	ID              string        `json:"id"`
	FoodItemID      string        `json:"food_item_id"`
	FoodItem        *FoodItem     `json:"food_item,omitempty"`
	BeneficiaryID   string        `json:"beneficiary_id"`
	BeneficiaryName string        `json:"beneficiary_name,omitempty"`
	Status          RequestStatus `json:"status"`
	Message         *string       `json:"message,omitempty"`
	RequestedAt     time.Time     `json:"requested_at"`
	RespondedAt     *time.Time    `json:"responded_at,omitempty"`
	PickedAt        *time.Time    `json:"picked_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// Notification is a stored per-user event the client polls or receives over WS.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// VerificationRequest is a user's application to be marked as verified.
type VerificationRequest struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	UserName         string             `json:"user_name,omitempty"`
	OrganizationName string             `json:"organization_name"`
	OrganizationType string             `json:"organization_type"`
	DocumentURL      *string            `json:"document_url,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Status           VerificationStatus `json:"status"`
	AdminNotes       *string            `json:"admin_notes,omitempty"`
	SubmittedAt      time.Time          `json:"submitted_at"`
	ReviewedAt       *time.Time         `json:"reviewed_at,omitempty"`
	ReviewedBy       *string            `json:"reviewed_by,omitempty"`
}

// ValidOrganizationType reports whether t is an accepted organization type.
func ValidOrganizationType(t string) bool {
	switch t {
	case "restaurant", "ngo", "shelter", "food_bank", "other":
		return true
	}
	return false
}
