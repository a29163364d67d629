// Package docx writes and reads DOCX (Office Open XML) word-processing
// packages. Output is deterministic: equal documents produce equal bytes.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tsawler/sysdoc/model"
)

// DefaultApplication is written to docProps/app.xml unless overridden.
const DefaultApplication = "sysdoc"

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// zipTime is stamped on every entry so equal documents give equal bytes.
var zipTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// identifierSpace is the UUIDv5 namespace of package identifiers.
var identifierSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tsawler/sysdoc"))

// Option configures the package writer.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	application string
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		application: DefaultApplication,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for per-part debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithApplication sets the application name recorded in docProps/app.xml.
func WithApplication(name string) Option {
	return func(o *options) {
		if name != "" {
			o.application = name
		}
	}
}

// PathError records a failed filesystem or stream operation. It matches
// both model.ErrIO and the underlying cause with errors.Is.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("docx: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("docx: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() []error { return []error{model.ErrIO, e.Err} }

// part is one named entry of the package.
type part struct {
	name string
	data []byte
}

// Bytes serializes doc to a complete package. It does not change the
// document's state.
func Bytes(doc *model.Document, opts ...Option) ([]byte, error) {
	return encodePackage(doc, newOptions(opts))
}

// Encode serializes doc to w and marks the document written.
func Encode(doc *model.Document, w io.Writer, opts ...Option) error {
	o := newOptions(opts)
	data, err := encodePackage(doc, o)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &PathError{Op: "write", Err: err}
	}
	doc.MarkWritten()
	return nil
}

// Write serializes doc to the file dest. The file is replaced atomically:
// on any failure dest is left as it was and no temporary file remains.
// Style references are checked before the filesystem is touched.
func Write(doc *model.Document, dest string, opts ...Option) error {
	o := newOptions(opts)
	data, err := encodePackage(doc, o)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(dest, data); err != nil {
		return err
	}
	doc.MarkWritten()
	o.logger.Debug("package written", "path", dest, "bytes", len(data))
	return nil
}

func writeFileAtomic(dest string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return &PathError{Op: "create", Path: dest, Err: err}
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(name)
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return &PathError{Op: "chmod", Path: dest, Err: err}
	}
	if _, err = tmp.Write(data); err != nil {
		return &PathError{Op: "write", Path: dest, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &PathError{Op: "sync", Path: dest, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &PathError{Op: "close", Path: dest, Err: err}
	}
	if err = os.Rename(name, dest); err != nil {
		return &PathError{Op: "rename", Path: dest, Err: err}
	}
	return nil
}

func encodePackage(doc *model.Document, o *options) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", model.ErrConfiguration)
	}
	if err := doc.ResolveStyles(); err != nil {
		return nil, err
	}

	parts, err := buildParts(doc, o)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: zipTime,
		})
		if err != nil {
			return nil, fmt.Errorf("docx: adding %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("docx: writing %s: %w", p.name, err)
		}
		o.logger.Debug("wrote part", "name", p.name, "bytes", len(p.data))
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: closing package: %w", err)
	}
	return buf.Bytes(), nil
}

// buildParts renders every part in package order.
func buildParts(doc *model.Document, o *options) ([]part, error) {
	blocks := doc.Blocks()
	styles := newStyleSet(doc)
	plan := planNumbering(blocks)
	enc := &bodyEncoder{styles: styles, plan: plan}

	documentData, err := marshalPart(wDocument{NSW: nsW, NSR: nsR, Body: enc.encodeBody(blocks)})
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partDocument, err)
	}
	stylesData, err := marshalPart(buildStyles(styles, doc.Metadata.Language))
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partStyles, err)
	}
	var numberingData []byte
	if !plan.empty() {
		if numberingData, err = marshalPart(plan.build()); err != nil {
			return nil, fmt.Errorf("docx: encoding %s: %w", partNumbering, err)
		}
	}

	identifier := "urn:uuid:" + uuid.NewSHA1(identifierSpace, documentData).String()
	meta := doc.Metadata
	coreData, err := marshalPart(cpCoreProperties{
		NSCP:       nsCP,
		NSDC:       nsDC,
		NSDCTerms:  nsDCTerms,
		Title:      meta.Title,
		Subject:    meta.Subject,
		Creator:    meta.Creator,
		Keywords:   strings.Join(meta.Keywords, ", "),
		Identifier: identifier,
		Language:   meta.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partCore, err)
	}
	appData, err := marshalPart(appProperties{Namespace: nsExtended, Application: o.application})
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partApp, err)
	}

	types := ctTypes{
		Namespace: nsContentTypes,
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []ctOverride{
			{PartName: "/" + partDocument, ContentType: ctDocument},
			{PartName: "/" + partStyles, ContentType: ctStyles},
		},
	}
	docRels := pkgRelationships{
		Namespace: nsPackageRels,
		Relationships: []pkgRelationship{
			{ID: "rId1", Type: relStyles, Target: "styles.xml"},
		},
	}
	if numberingData != nil {
		types.Overrides = append(types.Overrides, ctOverride{PartName: "/" + partNumbering, ContentType: ctNumbering})
		docRels.Relationships = append(docRels.Relationships, pkgRelationship{ID: "rId2", Type: relNumbering, Target: "numbering.xml"})
	}
	types.Overrides = append(types.Overrides,
		ctOverride{PartName: "/" + partCore, ContentType: ctCore},
		ctOverride{PartName: "/" + partApp, ContentType: ctApp},
	)

	typesData, err := marshalPart(types)
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partContentTypes, err)
	}
	rootRelsData, err := marshalPart(pkgRelationships{
		Namespace: nsPackageRels,
		Relationships: []pkgRelationship{
			{ID: "rId1", Type: relOfficeDocument, Target: partDocument},
			{ID: "rId2", Type: relCoreProps, Target: partCore},
			{ID: "rId3", Type: relExtendedProps, Target: partApp},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partRootRels, err)
	}
	docRelsData, err := marshalPart(docRels)
	if err != nil {
		return nil, fmt.Errorf("docx: encoding %s: %w", partDocumentRels, err)
	}

	parts := []part{
		{partContentTypes, typesData},
		{partRootRels, rootRelsData},
		{partCore, coreData},
		{partApp, appData},
		{partDocument, documentData},
		{partStyles, stylesData},
	}
	if numberingData != nil {
		parts = append(parts, part{partNumbering, numberingData})
	}
	parts = append(parts, part{partDocumentRels, docRelsData})
	return parts, nil
}

func marshalPart(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
