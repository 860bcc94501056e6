package core

// Session is the authenticated account behind a request.
// ID holds the studentId for students, the company id for companies and the username otherwise.
type Session struct {
	Role       Role   `json:"role"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

func (s Session) Person() Person {
	return Person{ID: string(s.Role) + ":" + s.ID, Name: s.Name, Email: s.Email}
}

func (s Session) Is(roles ...Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
