package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFilterOption(t *testing.T) {
	tests := []struct {
		name        string
		filter      productFilter
		expectedErr string
	}{
		{
			name:   "given empty filter should build option",
			filter: productFilter{},
		},
		{
			name:   "given collection and price range should build option",
			filter: productFilter{collection: uuid.NewString(), minPrice: "100", maxPrice: "250.50"},
		},
		{
			name:        "given malformed collection should return error",
			filter:      productFilter{collection: "totes"},
			expectedErr: "collection=totes is not a valid id",
		},
		{
			name:        "given malformed price should return error",
			filter:      productFilter{maxPrice: "cheap"},
			expectedErr: "price=cheap is not a valid amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := tt.filter.option()
			if tt.expectedErr != "" {
				assert.EqualError(t, err, tt.expectedErr)
				assert.Nil(t, opt)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, opt)
		})
	}
}

func TestAdminCommandArguments(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{
			name:        "given create without fields should return error",
			args:        []string{"create", "slides"},
			expectedErr: "no fields given",
		},
		{
			name:        "given create with malformed field should return error",
			args:        []string{"create", "slides", "--set", "title"},
			expectedErr: "field=title must look like name=value",
		},
		{
			name:        "given update without id should return error",
			args:        []string{"update", "slides", "--set", "title=Summer"},
			expectedErr: "accepts 2 arg(s)",
		},
		{
			name:        "given list with malformed price should return error",
			args:        []string{"list", "products", "--min-price", "cheap"},
			expectedErr: "price=cheap is not a valid amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command := NewAdminCommand()
			command.SetArgs(tt.args)
			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})

			err := command.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestRecordCommandsFlags(t *testing.T) {
	command := NewAdminCommand()
	for _, name := range []string{"create", "update"} {
		sub, _, err := command.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
		for _, flag := range []string{"set", "file", "image"} {
			assert.NotNil(t, sub.Flags().Lookup(flag), "%s should accept --%s", name, flag)
		}
	}
}
