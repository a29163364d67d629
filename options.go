package sysdoc

import (
	"io"
	"log/slog"
)

// generateOptions holds configuration for document generation.
type generateOptions struct {
	// output overrides the definition's output path
	output string

	logger      *slog.Logger
	application string
}

// defaultOptions returns the default generation options.
func defaultOptions() generateOptions {
	return generateOptions{
		output:      "", // empty means the definition decides
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		application: "",
	}
}

// clone creates a copy of generateOptions.
func (o generateOptions) clone() generateOptions {
	return generateOptions{
		output:      o.output,
		logger:      o.logger,
		application: o.application,
	}
}
