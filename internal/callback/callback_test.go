package callback

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []int64{0, 1, 42, 999999, 1<<62 - 1}

	for _, action := range Actions() {
		for _, id := range ids {
			t.Run(fmt.Sprintf("%s_%d", action, id), func(t *testing.T) {
				token := Encode(action, id)

				gotAction, gotID, err := Decode(token)
				require.NoError(t, err)
				assert.Equal(t, action, gotAction)
				assert.Equal(t, id, gotID)
			})
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	assert.Equal(t, "del:42", Encode(ActionDelete, 42))
	assert.Equal(t, "confirm_del_yes:7", Encode(ActionDeleteConfirm, 7))
	assert.Equal(t, "open_list:0", Encode(ActionOpenList, 0))
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no separator", "del"},
		{"unknown action", "drop_table:1"},
		{"non-numeric id", "del:abc"},
		{"negative id", "del:-1"},
		{"missing id", "del:"},
		{"id with trailing garbage", "del:12x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestDecodeDoesNotCheckExistence(t *testing.T) {
	// Синтаксически корректный токен на несуществующий платёж — не ошибка кодека
	action, id, err := Decode("del:123456789")
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, action)
	assert.Equal(t, int64(123456789), id)
}
