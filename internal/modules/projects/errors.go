package projects

import "errors"

var (
	ErrNotFound       = errors.New("project_not_found")
	ErrInvalidProject = errors.New("invalid_project")
)
