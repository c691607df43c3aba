package view

import "errors"

var (
	// ErrNotConfigured indicates the application has no view engine.
	ErrNotConfigured = errors.New("view: not configured")

	// ErrInvalidFS indicates New received a nil or unusable filesystem.
	ErrInvalidFS = errors.New("view: invalid template filesystem")

	// ErrTemplateNotFound indicates the named template does not exist.
	ErrTemplateNotFound = errors.New("view: template not found")

	// ErrRenderFailed indicates template parsing or execution failed.
	ErrRenderFailed = errors.New("view: render failed")
)
