// Package language maps canonical language tags to the codes the web
// translation provider expects, and back.
package language
