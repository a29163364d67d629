package sysdoc

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/sysdoc/docx"
	"github.com/tsawler/sysdoc/format"
	"github.com/tsawler/sysdoc/model"
	"github.com/tsawler/sysdoc/report"
)

// Generator provides a fluent interface for building a report and writing
// it as a DOCX package. Each configuration method returns a new Generator,
// so a configured Generator can be shared and extended safely.
type Generator struct {
	// Source
	load func() (*report.Definition, error)

	// Configuration
	options generateOptions
}

// clone creates a shallow copy of the Generator with a copy of options.
func (g *Generator) clone() *Generator {
	return &Generator{
		load:    g.load,
		options: g.options.clone(),
	}
}

// Output sets the path of the written package, overriding the
// definition's output attribute. The path must end in .docx.
func (g *Generator) Output(path string) *Generator {
	newG := g.clone()
	newG.options.output = path
	return newG
}

// Logger sets the logger for progress output. A nil logger keeps the
// current one.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	newG := g.clone()
	if l != nil {
		newG.options.logger = l
	}
	return newG
}

// Application sets the application name recorded in the package
// properties.
func (g *Generator) Application(name string) *Generator {
	newG := g.clone()
	newG.options.application = name
	return newG
}

// Definition loads the report definition.
func (g *Generator) Definition() (*report.Definition, error) {
	if g.load == nil {
		return nil, fmt.Errorf("%w: no report definition", model.ErrConfiguration)
	}
	return g.load()
}

// Document loads the definition and builds a fresh document from it.
func (g *Generator) Document() (*model.Document, error) {
	def, err := g.Definition()
	if err != nil {
		return nil, err
	}
	return def.Build()
}

// OutputPath returns the path Write will write to.
func (g *Generator) OutputPath() (string, error) {
	def, err := g.Definition()
	if err != nil {
		return "", err
	}
	return g.outputPath(def)
}

func (g *Generator) outputPath(def *report.Definition) (string, error) {
	path := g.options.output
	if path == "" {
		path = def.Output
	}
	if format.Detect(path) != format.DOCX {
		return "", fmt.Errorf("%w: output %q must have the %s extension",
			model.ErrConfiguration, path, format.DOCX.Extension())
	}
	return path, nil
}

// Bytes builds the document and returns the serialized package without
// touching the filesystem.
func (g *Generator) Bytes() ([]byte, error) {
	doc, err := g.Document()
	if err != nil {
		return nil, err
	}
	return docx.Bytes(doc, g.writerOptions()...)
}

// Write builds the document, writes it and returns the path written.
//
// Example:
//
//	path, err := sysdoc.Default().Output("system.docx").Write()
func (g *Generator) Write() (string, error) {
	logger := g.options.logger

	def, err := g.Definition()
	if err != nil {
		return "", err
	}
	path, err := g.outputPath(def)
	if err != nil {
		return "", err
	}
	logger.Debug("building report", "definition", def.Filename(), "blocks", len(def.Blocks), "styles", len(def.Styles))

	doc, err := def.Build()
	if err != nil {
		return "", err
	}
	if err := docx.Write(doc, path, g.writerOptions()...); err != nil {
		return "", err
	}
	logger.Info("document written", "path", path, "blocks", doc.Len())
	return path, nil
}

func (g *Generator) writerOptions() []docx.Option {
	opts := []docx.Option{docx.WithLogger(g.options.logger)}
	if g.options.application != "" {
		opts = append(opts, docx.WithApplication(g.options.application))
	}
	return opts
}
