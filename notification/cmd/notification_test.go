package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/bagstore/notification/pkg/event"
)

func TestDeliver(t *testing.T) {
	tests := []struct {
		name           string
		event          event.Event
		expectedLog    string
		expectingError bool
	}{
		{
			name:        "given otp should log the code for the recipient",
			event:       event.New(event.TypeOtp, "ann@example.com", map[string]interface{}{"otp": "123456"}),
			expectedLog: "sending otp",
		},
		{
			name:        "given placed order should log the confirmation",
			event:       event.New(event.TypeOrderPlaced, "ann@example.com", map[string]interface{}{"orderId": "o-1", "total": "282.5"}),
			expectedLog: "sending order confirmation",
		},
		{
			name:        "given contact submission should forward it",
			event:       event.New(event.TypeContactSubmitted, "ann@example.com", nil),
			expectedLog: "forwarding contact message",
		},
		{
			name:           "given unknown type should fail",
			event:          event.New(event.Type("fax"), "ann@example.com", nil),
			expectingError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			c := zerolog.New(buf).WithContext(context.Background())

			err := Deliver(c, tt.event)
			if tt.expectingError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Contains(t, buf.String(), tt.expectedLog)
			assert.Contains(t, buf.String(), tt.event.Recipient)
		})
	}
}
