package models

// Role distinguishes students from teachers. Selection of a role is the only
// "login" step; there are no credentials.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is a student or teacher. Stars only carry meaning for students and
// never go negative.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Stars int    `json:"stars"`
}

// IsStudent reports whether the user holds a star balance.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role Role
}
