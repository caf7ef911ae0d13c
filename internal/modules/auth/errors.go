package auth

import "foodgram/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "INVALID_CREDENTIALS", "Unable to log in with provided credentials.")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrWrongPassword      = apperr.New(apperr.KindValidation, "WRONG_PASSWORD", "Invalid request data").
				WithField("current_password", "Wrong password.")
)

const (
	msgEmailTaken    = "A user with that email already exists."
	msgUsernameTaken = "A user with that username already exists."
)
