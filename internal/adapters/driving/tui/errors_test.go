package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.EqualError(t, ErrMissingReorderService, "tui: reorder service is required")
	assert.EqualError(t, ErrEmptyText, "tui: text is empty")
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"nil ports", nil, ErrMissingReorderService},
		{"missing reorder", &Ports{}, ErrMissingReorderService},
		{"valid", NewPorts(&mockReorderService{}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
