package service

import "errors"

var (
	// Login failures. These are deliberately distinct and client-observable,
	// which lets callers enumerate accounts; see the login handler note.
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// Security-token redemption failures, one per failed lifecycle check.
	ErrTokenNotFound    = errors.New("security_token_not_found")
	ErrWrongTokenType   = errors.New("security_token_wrong_type")
	ErrTokenAlreadyUsed = errors.New("security_token_already_used")
	ErrTokenExpired     = errors.New("security_token_expired")

	ErrEmailTaken        = errors.New("email_already_registered")
	ErrCommunityNotFound = errors.New("community_not_found")
)
