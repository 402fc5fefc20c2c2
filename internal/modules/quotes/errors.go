package quotes

import "errors"

var (
	ErrNotFound      = errors.New("not_found")
	ErrConflict      = errors.New("quote_already_submitted")
	ErrInvalidQuote  = errors.New("invalid_quote")
	ErrProjectClosed = errors.New("project_closed")
	ErrUnknownTrade  = errors.New("unknown_trade")
)
