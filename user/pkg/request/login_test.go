package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequest(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := LoginRequest{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestVerifyOtp(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "otp": "***"}
	expected, _ := json.Marshal(expectedMap)
	verifyReq := VerifyOtp{Email: "email", Otp: "123456"}

	actual, _ := json.Marshal(verifyReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "123456", verifyReq.Otp)
}

func TestCreateAdmin(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "name": "name", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	createReq := CreateAdmin{Name: "name", Email: "email", Password: "password"}

	actual, _ := json.Marshal(createReq)

	assert.JSONEq(t, string(expected), string(actual))
}
