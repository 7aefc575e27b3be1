package tui

import "errors"

// ErrMissingProjectService is returned when the project service is not provided.
var ErrMissingProjectService = errors.New("tui: project service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
