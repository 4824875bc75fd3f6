// Package provider implements the adapter for the web translation endpoint:
// form-encoded requests authorized by session tokens, JSON responses
// normalized into Result, and a single refresh-then-retry on stale sessions.
package provider
