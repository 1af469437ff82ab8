package dto

// ── Authentication forms ──

// SignupRequest public signup form. Fields are validated in declaration
// order; the message of every failing field is shown.
type SignupRequest struct {
	FirstName       string `form:"firstname"       validate:"required"`
	LastName        string `form:"lastname"        validate:"required"`
	Email           string `form:"email"           validate:"required,email"`
	Password        string `form:"password"        validate:"required"`
	PasswordConfirm string `form:"passwordConfirm"`
}

// LoginRequest login form
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// CreateAccountRequest principal-only account creation form
type CreateAccountRequest struct {
	SignupRequest
	Role string `form:"role" validate:"required,oneof=Principal Teacher Student"`
}
