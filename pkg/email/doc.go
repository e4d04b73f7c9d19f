// Package email delivers transactional messages.
//
// EmailSender is the delivery abstraction. NewPostmarkClient sends through
// Postmark (github.com/mrz1836/postmark); DevSender writes messages to disk
// for local work. Message bodies are templ components from the templates
// subpackage, rendered to HTML with templates.Render.
package email
