package notification

import "errors"

var ErrNotFound = errors.New("notification_not_found")
