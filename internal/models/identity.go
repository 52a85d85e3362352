package models

const (
	RoleRider = "rider"
	RoleAdmin = "admin"
)

// Identity: проверенная личность из access токена.
type Identity struct {
	Subject string
	Role    string
	Name    string
}
