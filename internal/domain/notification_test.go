package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{"info", KindInfo, true},
		{"warning", KindWarning, true},
		{"error", KindError, true},
		{"empty", Kind(""), false},
		{"unknown", Kind("critical"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestRecipientID_Matches(t *testing.T) {
	tests := []struct {
		name      string
		recipient RecipientID
		userID    int64
		want      bool
	}{
		{"absent recipient matches anyone", RecipientID{}, 7, true},
		{"matching recipient", RecipientID{Value: 42, Present: true}, 42, true},
		{"non-matching recipient", RecipientID{Value: 42, Present: true}, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.recipient.Matches(tt.userID))
		})
	}
}

func TestRecipientID_UnmarshalJSON(t *testing.T) {
	t.Run("number form", func(t *testing.T) {
		var r RecipientID
		require.NoError(t, json.Unmarshal([]byte(`42`), &r))
		assert.True(t, r.Present)
		assert.Equal(t, int64(42), r.Value)
	})

	t.Run("string form", func(t *testing.T) {
		var r RecipientID
		require.NoError(t, json.Unmarshal([]byte(`"42"`), &r))
		assert.True(t, r.Present)
		assert.Equal(t, int64(42), r.Value)
	})

	t.Run("null", func(t *testing.T) {
		var r RecipientID
		require.NoError(t, json.Unmarshal([]byte(`null`), &r))
		assert.False(t, r.Present)
	})

	t.Run("non-numeric string", func(t *testing.T) {
		var r RecipientID
		assert.Error(t, json.Unmarshal([]byte(`"abc"`), &r))
	})

	t.Run("unsupported type", func(t *testing.T) {
		var r RecipientID
		assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &r))
	})
}

func TestRecipientID_MarshalJSON(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		data, err := json.Marshal(RecipientID{Value: 9, Present: true})
		require.NoError(t, err)
		assert.Equal(t, `9`, string(data))
	})

	t.Run("absent", func(t *testing.T) {
		data, err := json.Marshal(RecipientID{})
		require.NoError(t, err)
		assert.Equal(t, `null`, string(data))
	})
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"supervisor", "supervisor", RoleSupervisor, false},
		{"worker", "worker", RoleWorker, false},
		{"admin is not a push role", "admin", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
