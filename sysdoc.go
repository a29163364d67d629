// Package sysdoc provides a fluent API for generating system documentation
// as DOCX files from report definitions.
//
// Basic usage:
//
//	path, err := sysdoc.Default().Write()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("Successfully created", path)
//
// With options:
//
//	path, err := sysdoc.FromFile("handbook.hcl").
//	    Output("out/handbook.docx").
//	    Logger(logger).
//	    Write()
//
// The model, docx and report packages are available for finer control.
package sysdoc

import (
	"github.com/tsawler/sysdoc/report"
)

// FromFile returns a Generator for the HCL report definition at path. The
// file is read when a terminal operation runs.
//
// Example:
//
//	doc, err := sysdoc.FromFile("report.hcl").Document()
func FromFile(path string) *Generator {
	return &Generator{
		load:    func() (*report.Definition, error) { return report.Load(path) },
		options: defaultOptions(),
	}
}

// Default returns a Generator for the built-in medical system report.
//
// Example:
//
//	path, err := sysdoc.Default().Write()
func Default() *Generator {
	return &Generator{
		load:    report.Default,
		options: defaultOptions(),
	}
}

// FromDefinition returns a Generator for an already parsed definition.
func FromDefinition(def *report.Definition) *Generator {
	return &Generator{
		load:    func() (*report.Definition, error) { return def, nil },
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	path := sysdoc.Must(sysdoc.Default().Write())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
