// Package queue defines message payloads exchanged over the message broker.
package queue

// ContactSubmittedEvent is published after a contact form submission has been
// stored.  It carries the full message so a consumer never needs the database.
type ContactSubmittedEvent struct {
	MessageID   int64  `json:"message_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Body        string `json:"body"`
	SubmittedAt string `json:"submitted_at"`
}
