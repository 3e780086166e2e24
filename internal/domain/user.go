package domain

import "time"

// User is the account behind the current session. The id is an opaque
// string issued by the identity provider, stable per account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Birthdate time.Time `json:"birthdate,omitempty"`
	Sizes     Sizes     `json:"sizes,omitempty"`
}

// Sizes holds free-text apparel sizes. Every field is optional; missing
// values stay empty strings.
type Sizes struct {
	Shirt      string `json:"shirt,omitempty"`
	Pants      string `json:"pants,omitempty"`
	Shoes      string `json:"shoes,omitempty"`
	Sweatshirt string `json:"sweatshirt,omitempty"`
	Hat        string `json:"hat,omitempty"`
}

// IsZero reports whether no size has been filled in.
func (s Sizes) IsZero() bool {
	return s == Sizes{}
}
