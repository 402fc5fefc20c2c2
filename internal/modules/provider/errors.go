package provider

import "errors"

var (
	ErrNotFound       = errors.New("provider_not_found")
	ErrInvalidProfile = errors.New("invalid_profile")
	ErrEmailTaken     = errors.New("email_taken")
	ErrUnknownTrade   = errors.New("unknown_trade")
)
