// Package schemas defines the data structures
package schemas

import (
	"github.com/google/uuid"
	"time"
)

// User represents the data model for a customer account in the system.
// The activation and reset tokens live on the user row itself: at most one
// live activation token and one live, non-expired reset token exist per user
// at any time, both single-use.
type User struct {
	ID               *uuid.UUID `json:"id"`               // Unique identifier for the user.
	FullName         string     `json:"fullName"`         // Full display name of the user.
	Phone            string     `json:"phone"`            // Phone number of the user.
	Email            string     `json:"email"`            // Email address of the user.
	Password         string     `json:"password"`         // Password hash of the user.
	Website          *string    `json:"website"`          // Optional personal website.
	Subscribed       bool       `json:"subscribed"`       // Newsletter subscription flag.
	EmailVerified    bool       `json:"emailVerified"`    // Whether the email has been verified.
	ActivationToken  *string    `json:"activationToken"`  // Pending activation token, nil once consumed.
	ResetToken       *string    `json:"resetToken"`       // Pending password reset token, nil when none.
	ResetTokenExpiry *time.Time `json:"resetTokenExpiry"` // Expiry of the pending reset token.
	CreatedAt        *time.Time `json:"createdAt"`        // Timestamp when the account was created.
	ActivatedAt      *time.Time `json:"activatedAt"`      // Timestamp when the account was activated.
	PasswordResetAt  *time.Time `json:"passwordResetAt"`  // Timestamp of the last password reset.
}

// Product represents a catalog item. Products are immutable for the scope of
// this service; category and color are free-form tags matched by exact
// string equality, not foreign keys.
type Product struct {
	ID              int64   `json:"id"`                        // Unique identifier for the product.
	Name            string  `json:"name"`                      // Display name.
	Price           int64   `json:"price"`                     // Price in minor-unit-free VND.
	OldPrice        *int64  `json:"oldPrice,omitempty"`        // Previous price, if discounted.
	Image           string  `json:"image"`                     // Image reference.
	IsNew           bool    `json:"isNew,omitempty"`           // New-arrival flag.
	DiscountPercent *int    `json:"discountPercent,omitempty"` // Discount percentage, if any.
	Rating          *int    `json:"rating,omitempty"`          // Rating from 0 to 5.
	Description     *string `json:"description,omitempty"`     // Optional description.
	Category        *string `json:"category,omitempty"`        // Category tag.
	Color           *string `json:"color,omitempty"`           // Color tag.
	Stock           *int    `json:"stock,omitempty"`           // Units in stock.
}
