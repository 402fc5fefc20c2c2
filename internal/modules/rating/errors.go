package rating

import "errors"

var (
	ErrNotFound      = errors.New("provider_not_found")
	ErrInvalidRating = errors.New("invalid_rating")
)
