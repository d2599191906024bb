package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// ValidationErrorDTO is a struct that represents a request validation failure
// Fields maps each offending JSON field name to the rule it violated.
type ValidationErrorDTO struct {
	Error  CustomError       `json:"error"`
	Fields map[string]string `json:"fields"`
}

// UserDTO is a struct that represents a user profile response
// The password hash and any pending tokens are deliberately absent: tokens
// only ever travel inside dispatched notifications.
type UserDTO struct {
	UserId        string  `json:"userId"`
	FullName      string  `json:"fullName"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	MaskedEmail   string  `json:"maskedEmail"`
	Website       *string `json:"website,omitempty"`
	Subscribed    bool    `json:"subscribed"`
	EmailVerified bool    `json:"emailVerified"`
}

// TokenPairDTO is a struct that represents a token response
// Token is the main JWT token used for auth
// RefreshToken is the refresh token used to get a new token
type TokenPairDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponseDTO is a struct that represents a login response
// It carries the authenticated profile alongside the issued token pair.
type LoginResponseDTO struct {
	User      UserDTO      `json:"user"`
	TokenPair TokenPairDTO `json:"tokenPair"`
}

// ProductDTO is a struct that represents a catalog product response
type ProductDTO struct {
	ProductId       int64   `json:"productId"`
	Name            string  `json:"name"`
	Price           int64   `json:"price"`
	OldPrice        *int64  `json:"oldPrice,omitempty"`
	Image           string  `json:"image"`
	IsNew           bool    `json:"isNew,omitempty"`
	DiscountPercent *int    `json:"discountPercent,omitempty"`
	Rating          *int    `json:"rating,omitempty"`
	Description     *string `json:"description,omitempty"`
	Category        *string `json:"category,omitempty"`
	Color           *string `json:"color,omitempty"`
	Stock           *int    `json:"stock,omitempty"`
}

// CategoryCountDTO is a struct that represents a sidebar category entry
// Count is the number of catalog items matching the non-category filters.
type CategoryCountDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PagePagination is a struct that represents page-indexed pagination
// Page is the 1-based page index
// PageSize is the given page size
// Records is the total records across all pages
// TotalPages is ceil(Records / PageSize)
type PagePagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Records    int `json:"records"`
	TotalPages int `json:"totalPages"`
}

// ProductPageDTO is a struct that represents a product listing response
// Categories always lists every category observed in the full catalog, with
// counts computed under the active non-category filters.
type ProductPageDTO struct {
	Records    []ProductDTO       `json:"records"`
	Pagination PagePagination     `json:"pagination"`
	Categories []CategoryCountDTO `json:"categories"`
}

// MetadataDTO is a struct that represents the version response
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
