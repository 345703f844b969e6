package confirm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projecteru2/vboxctl/types"
)

var targets = []types.VMStatus{
	{VM: types.VM{Name: "web-1", ID: "0f1c2d3e-4a5b-4c6d-8e7f-001122334455"}, State: types.VMStateRunning},
	{VM: types.VM{Name: "web-2", ID: "1a2b3c4d-5e6f-4a1b-9c2d-66778899aabb"}, State: types.VMStatePoweroff},
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"y\n", false},
		{"YES\n", false},
		{"  yes  \n", false},
		{"n\n", true},
		{"\n", true},
		{"", true},
		{"yess\n", true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := &Prompter{In: strings.NewReader(tt.input), Out: &out}
			err := p.Confirm(context.Background(), "stop", targets)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDeclined)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), "web-1")
			assert.Contains(t, out.String(), "poweroff")
			assert.Contains(t, out.String(), "Continue? [y/N]")
		})
	}
}

func TestConfirmAssumeYes(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("n\n"), Out: &out, AssumeYes: true}
	assert.NoError(t, p.Confirm(context.Background(), "delete", targets))
	assert.Contains(t, out.String(), "confirmed by --yes")
	assert.Contains(t, out.String(), "0f1c2d3e-4a5b-4c6d-8e7f-001122334455")
}
