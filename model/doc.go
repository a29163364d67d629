// Package model provides the in-memory document tree that the docx package
// serializes.
//
// A [Document] is an ordered sequence of [Block] values plus a [Registry] of
// named styles. Blocks are one of four kinds:
//
//   - [Heading] - outline headings, level 0 (the title) through 9
//   - [Paragraph] - a sequence of formatted [Run] values
//   - [ListItem] - one entry of a numbered list
//   - [Table] - a rectangular grid whose first row is the header
//
// # Building
//
//	doc, err := model.NewDocument(model.StyleDef{Font: "Times New Roman", Size: 12})
//	if err != nil {
//	    // handle error
//	}
//	doc.AddHeading("Report", 0)
//	doc.AddParagraph([]model.Run{model.Bold("Note:"), model.Text(" draft")}, "")
//	doc.AddNumberedListItem("First step", "List Number")
//	doc.AddTable([]string{"A", "B"}, [][]string{{"1", "2"}}, "Table Grid")
//	doc.RegisterStyle("List Number", model.StyleDef{Type: model.StyleList})
//	doc.RegisterStyle("Table Grid", model.StyleDef{Type: model.StyleTable, Grid: true})
//
// Structural errors (bad heading level, a second title, ragged tables) are
// returned immediately and leave the document unchanged. Style references are
// checked by [Document.ResolveStyles] when the document is written, so styles
// may be registered after the content that uses them.
//
// # Errors
//
// Every error matches one of [ErrConfiguration], [ErrRange], [ErrInvariant],
// [ErrShape], [ErrStyleResolution] or [ErrIO] with errors.Is. [Kind] returns
// the kind name for display.
//
// A Document is not safe for concurrent use.
package model
