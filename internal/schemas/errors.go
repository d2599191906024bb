package schemas

// CustomError is a struct that represents an error in the error catalog
// Code is a stable machine-readable identifier
// Message is the user-facing message surfaced verbatim to the UI
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var BadRequest = &CustomError{
	Code:    "ERR-001",
	Message: "The request body is invalid. Please check the request body and try again.",
}

var EmailTaken = &CustomError{
	Code:    "ERR-002",
	Message: "The email is already registered. Please use another email address.",
}

var UserNotFound = &CustomError{
	Code:    "ERR-003",
	Message: "The user was not found. Please check the given information and try again.",
}

var InvalidToken = &CustomError{
	Code:    "ERR-004",
	Message: "The provided token is invalid. Please request a new one and try again.",
}

var TokenExpired = &CustomError{
	Code:    "ERR-005",
	Message: "The provided token has expired. Please request a new one and try again.",
}

var UserAlreadyActivated = &CustomError{
	Code:    "ERR-006",
	Message: "The account has already been activated.",
}

var InvalidCredentials = &CustomError{
	Code:    "ERR-007",
	Message: "The email or password is incorrect. Please check the credentials and try again.",
}

var Unauthorized = &CustomError{
	Code:    "ERR-008",
	Message: "The request is unauthorized. Please log in and try again.",
}

var DatabaseError = &CustomError{
	Code:    "ERR-009",
	Message: "A database error occurred. Please try again later.",
}

var EmailUnreachable = &CustomError{
	Code:    "ERR-010",
	Message: "The email address seems to be unreachable. Please check the address and try again.",
}

var InternalServerError = &CustomError{
	Code:    "ERR-011",
	Message: "An internal server error occurred. Please try again later.",
}

var ProductNotFound = &CustomError{
	Code:    "ERR-012",
	Message: "The product was not found. Please check the given information and try again.",
}
