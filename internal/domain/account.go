package domain

import "time"

// Account is an actor known to the mock backend, scoped to one namespace.
type Account struct {
	ID           string        `json:"id"`
	Namespace    NamespaceName `json:"role"`
	Name         string        `json:"name"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phoneNumber,omitempty"`
	PasswordHash string        `json:"-"`
	Active       bool          `json:"isActive"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Profile renders the account the way the backend returns actor records.
func (a Account) Profile() Profile {
	p := Profile{
		"id":       a.ID,
		"name":     a.Name,
		"role":     string(a.Namespace),
		"isActive": a.Active,
	}
	if a.Email != "" {
		p["email"] = a.Email
	}
	if a.Phone != "" {
		p["phoneNumber"] = a.Phone
	}
	return p
}
