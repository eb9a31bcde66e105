package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCorrection(t *testing.T) {
	tests := []struct {
		name      string
		oldID     string
		newID     string
		strict    bool
		wantErr   bool
		wantField string
	}{
		{name: "digits strict", oldID: "3760001", newID: "3760002", strict: true},
		{name: "empty old", oldID: "  ", newID: "1", strict: true, wantErr: true, wantField: "old"},
		{name: "empty new", oldID: "1", newID: "", strict: false, wantErr: true, wantField: "new"},
		{name: "letters strict", oldID: "12A4", newID: "1234", strict: true, wantErr: true, wantField: "old"},
		{name: "letters lenient", oldID: "12A4", newID: "1234", strict: false},
		{name: "empty new reported before digits", oldID: "12A4", newID: "", strict: true, wantErr: true, wantField: "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCorrection(tt.oldID, tt.newID, tt.strict)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	err := ValidateIdentifier("old", "x1", true)
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("add: %w", err)))
	assert.False(t, IsValidationError(fmt.Errorf("disk full")))
	assert.Contains(t, err.Error(), `"x1"`)
}
