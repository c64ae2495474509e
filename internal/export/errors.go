package export

import (
	"errors"

	"github.com/ayusman/widgetexport/internal/plugin"
	"github.com/ayusman/widgetexport/internal/sandbox"
)

// Errors returned by Bridge.Execute. All of them end the invocation; none is
// retried.
var (
	ErrInterpreterNotFound = sandbox.ErrInterpreterNotFound
	ErrPluginNotFound      = sandbox.ErrPluginNotFound
	ErrStaging             = sandbox.ErrStaging
	ErrLaunch              = plugin.ErrLaunch
	ErrExecution           = plugin.ErrExecution

	// ErrOutputRead is returned when the interpreter succeeded but the output
	// file could not be read.
	ErrOutputRead = errors.New("failed to read plugin output")
)
