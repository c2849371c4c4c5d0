package request

import "github.com/Alturino/bagstore/internal/listing"

type Contact struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"omitempty,phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type Newsletter struct {
	Email string `json:"email" validate:"required,email"`
}

type FindContacts struct {
	listing.Query
}
