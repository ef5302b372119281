package service

import "quizbank_backend/internal/model"

// AuthContext carries the identity of the caller into service methods
// so authorization decisions live next to the business rules they
// protect.
type AuthContext struct {
	UserID uint
	Role   model.UserRole
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}
