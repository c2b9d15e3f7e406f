package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) HasRole(roles ...UserRole) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
