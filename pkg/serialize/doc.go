// Package serialize writes Values back out: as JSON, as JSON wrapped with
// Conversion Metadata, as regenerated module source, and as YAML.
//
// Source export substitutes each metadata placeholder in the template with
// a freshly pretty-printed literal of the matching export, so exporting an
// unedited import reproduces the original module with its literals
// normalized to this package's formatting:
//
//	res, _ := source.Parse(text, source.ModeSourceLiteral)
//	out, err := serialize.Source(res.Metadata, res.Value)
//
// All functions build the full output in memory and return nothing on
// error, so callers never write partial files.
package serialize
