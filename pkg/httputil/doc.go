// Package httputil fetches documents over HTTP.
//
// [Fetcher] downloads a JSON or TypeScript document from an http(s) URL,
// bounding the body size and retrying transient failures with [Retry].
// Server errors, 429 responses and network failures are retried with
// exponential backoff; a 404 maps to FILE_NOT_FOUND and other client
// errors fail immediately.
//
//	f := httputil.NewFetcher()
//	data, err := f.Fetch(ctx, "https://example.com/site.json")
//
// [IsURL] reports whether a command-line input names a remote document.
package httputil
