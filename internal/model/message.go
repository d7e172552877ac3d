package model

// Message is a contact form submission from the `messages` table.  Messages
// are immutable and listed newest-first by ID.
type Message struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}
