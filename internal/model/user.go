package model

// User represents an application user record as stored in the `users`
// table.  Users are created by registration and never updated.
//
// Fields:
//
//	ID           – surrogate key assigned by the store.
//	Username     – unique, case-sensitive login name (3–150 chars).
//	PasswordHash – bcrypt hash; the plaintext is never stored.
type User struct {
	ID           int64  // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
}
