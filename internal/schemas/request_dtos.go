// Package schemas defines the request structures for the account and catalog operations.
package schemas

// RegistrationRequest is a struct that represents a registration request
// FullName is required
// Phone is required and must contain at least 10 digits
// Email is required and must be a valid email
// Website is optional, but must be a http(s) URL with a dotted domain if given
// Password is required, at least 8 characters with at least one letter and one digit
// ConfirmPassword is required and must equal Password
type RegistrationRequest struct {
	FullName        string `json:"fullName" validate:"required,notblank"`
	Phone           string `json:"phone" validate:"required,phone_validation"`
	Email           string `json:"email" validate:"required,email"`
	Website         string `json:"website" validate:"omitempty,website_validation"`
	Subscribed      bool   `json:"subscribed"`
	Password        string `json:"password" validate:"required,min=8,password_validation"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ActivationRequest is a struct that represents an activation request
// Token is required and must be a UUID
type ActivationRequest struct {
	Token string `json:"token" validate:"required,uuid4"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is a struct that represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ForgotPasswordRequest is a struct that represents a forgot-password request
// Email is required and must be a valid email
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is a struct that represents a reset-password request
// Token is required and must be a UUID
// NewPassword follows the registration password rules
// ConfirmPassword is required and must equal NewPassword
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required,uuid4"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,password_validation"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest is a struct that represents a profile update request
// The mutable profile fields only; password and verification state are
// managed by their own operations.
type UpdateProfileRequest struct {
	FullName   string `json:"fullName" validate:"required,notblank"`
	Phone      string `json:"phone" validate:"required,phone_validation"`
	Email      string `json:"email" validate:"required,email"`
	Website    string `json:"website" validate:"omitempty,website_validation"`
	Subscribed bool   `json:"subscribed"`
}
