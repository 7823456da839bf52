package models

// User is a customer account. Username duplicates Email because the
// frontend logs in by email but references bookings by username.
type User struct {
	IDUser   string `json:"id_user"`
	Name     string `json:"nama"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"` // bcrypt hash
	Photo    string `json:"foto"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"alamat,omitempty"`
	Birth    string `json:"lahir,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// Redacted returns a copy safe for API responses.
func (u User) Redacted() User {
	u.Password = "••••••••"
	return u
}

// Admin is an admin-panel account.
type Admin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
