// Package source turns input text into a [value.Value].
//
// Two modes are supported:
//
//   - [ModeJSON]: strict JSON. A JSON document carrying a "__meta" wrapper
//     (as written by the serialize package) is unwrapped back into its
//     value and [Metadata], so a module can round-trip through JSON.
//   - [ModeSourceLiteral]: a TypeScript/JavaScript module. Every top-level
//     `export const|let|var NAME = <literal>` and `export default <literal>`
//     whose initializer is an object or array literal is evaluated into a
//     plain value. The result is an object keyed by export name in source
//     order, plus [Metadata] holding the module text with each literal
//     replaced by a placeholder.
//
// Literal evaluation accepts nested objects and arrays, strings, template
// literals without substitutions, numeric literals with an optional sign,
// booleans and null. Anything else (spread elements, array holes,
// computed keys, interpolated templates, references, calls) fails with
// an UNSUPPORTED_LITERAL error naming the construct.
//
// Module text is read by a small lexer that understands comments,
// string/template/regex literals and punctuation; it does not build a
// full syntax tree.
package source
