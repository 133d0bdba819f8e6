package domain

// User is the authenticated principal as the session layer sees it. Adapters
// map backend-specific payloads into this shape; nothing outside the API
// boundary should touch raw role codes.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Role        Role
}
