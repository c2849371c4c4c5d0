package response

import (
	"github.com/google/uuid"
)

type Placed struct {
	OrderID uuid.UUID `json:"orderId"`
	Status  string    `json:"status"`
}
