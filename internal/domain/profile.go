package domain

// Profile is the cached, non-authoritative record of the logged-in actor.
// Its shape is owned by the backend.
type Profile map[string]any

// Name returns the actor's display name when present.
func (p Profile) Name() string {
	return p.str("name")
}

// Email returns the actor's email when present.
func (p Profile) Email() string {
	return p.str("email")
}

// ID returns the backend identifier, accepting both "id" and "_id".
func (p Profile) ID() string {
	if id := p.str("id"); id != "" {
		return id
	}
	return p.str("_id")
}

func (p Profile) str(key string) string {
	if p == nil {
		return ""
	}
	v, _ := p[key].(string)
	return v
}
