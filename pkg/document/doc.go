// Package document holds one imported input: its value, the Conversion
// Metadata needed to regenerate module text, the parse mode and the
// filename it came from.
//
// A Document is the unit hosts keep per open file or server session:
//
//	doc := document.New(nil)
//	if err := doc.Import("site.ts", text, source.ModeSourceLiteral); err != nil {
//	    return err
//	}
//	out, err := doc.ExportSource()
//
// Importing replaces the value and metadata together; a failed import
// leaves the previous content in place. Switching mode discards metadata,
// since a template produced from other text no longer describes the value.
//
// Documents are not safe for concurrent use; hosts serialize access.
package document
