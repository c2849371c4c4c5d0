package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type LoginRequest struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l LoginRequest) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l LoginRequest) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L LoginRequest
	return json.Marshal(L(l))
}

type OtpLogin struct {
	Email string `validate:"required,email" json:"email"`
}

type VerifyOtp struct {
	Email string `validate:"required,email"          json:"email"`
	Otp   string `validate:"required,len=6,numeric" json:"otp"`
}

func (v VerifyOtp) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", v.Email).Str("otp", "***")
}

func (v VerifyOtp) MarshalJSON() ([]byte, error) {
	v.Otp = "***"
	type V VerifyOtp
	return json.Marshal(V(v))
}
