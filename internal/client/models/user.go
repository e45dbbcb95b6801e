package models

// User is the identity derived from the bearer token's claims.
// It is never fetched independently from the server.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
