package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// CreateAdmin seeds a back-office account from the command line.
type CreateAdmin struct {
	Name     string `validate:"required"       json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required,min=8" json:"password"`
}

func (r CreateAdmin) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("name", r.Name)
}

func (r CreateAdmin) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R CreateAdmin
	return json.Marshal(R(r))
}
