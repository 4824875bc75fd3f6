// Package session obtains and holds the provider session credentials.
//
// The provider authorizes translation requests with two opaque tokens it
// drops as cookies when its page is visited. Refresh performs that visit
// through an HTTP client with a cookie jar and scrapes the named cookies.
package session
