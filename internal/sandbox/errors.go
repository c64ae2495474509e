package sandbox

import "errors"

var (
	// ErrInterpreterNotFound is returned when no interpreter candidate exists.
	ErrInterpreterNotFound = errors.New("lua interpreter not found")

	// ErrPluginNotFound is returned when the plugin file does not exist.
	ErrPluginNotFound = errors.New("plugin file not found")

	// ErrStaging is returned when the plugin copy or driver script cannot be
	// written to the staging directory.
	ErrStaging = errors.New("staging failed")
)
