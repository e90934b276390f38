package value

import (
	"fmt"

	"github.com/google/uuid"
)

type DealID uuid.UUID

func NewDealID() DealID {
	return DealID(uuid.New())
}

func ParseDealID(s string) (DealID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DealID{}, fmt.Errorf("uuid.Parse: %w", err)
	}

	return DealID(id), nil
}

func (id DealID) String() string {
	return uuid.UUID(id).String()
}

func (id DealID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
