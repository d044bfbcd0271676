package handler

const (
	errInternalServer     = "Internal server error"
	errDuplicateAccount   = "Email or username already in use"
	errInvalidCredentials = "Invalid credentials"
	errEmailNotConfirmed  = "Email not confirmed"
	errTokenInvalid       = "Invalid token"
	errTokenExpired       = "Token expired"
)
