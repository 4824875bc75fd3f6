// Package translator layers caching and an LLM fallback over the web
// translation provider.
package translator
