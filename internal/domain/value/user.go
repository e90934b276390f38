package value

import (
	"fmt"

	"github.com/google/uuid"
)

type UserID uuid.UUID

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("uuid.Parse: %w", err)
	}

	return UserID(id), nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

type Role string

const RoleAdmin Role = "admin"

func (r Role) String() string {
	return string(r)
}
