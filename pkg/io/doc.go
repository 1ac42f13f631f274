// Package io reads input documents and writes exported files.
//
// # Import
//
// Use [ReadFile] to read a document from a path, or [ReadAll] to read from
// any io.Reader. The path "-" reads standard input. Inputs are bounded by
// [MaxInputSize]; larger inputs are rejected instead of truncated.
//
// # Export
//
// Use [WriteFile] to write an export. The data goes to a temporary file in
// the destination directory which is renamed into place, so a failed export
// never leaves a partial file behind. [WriteTo] writes to any io.Writer.
package io
