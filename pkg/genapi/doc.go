// Package genapi is the HTTP client for the AI generation endpoint: three
// JSON POST operations (texture generation, multi-view batches, design
// submission) over a pooled transport with a per-request timeout layered on
// the caller context.
//
// Failures decode into *APIError carrying the endpoint's rate-limit codes
// (GLOBAL_LIMIT_REACHED, IP_LIMIT_REACHED) plus retry-after and limit
// hints; transport errors wrap ErrUnavailable. The client never retries a
// rate-limited request on its own.
package genapi
