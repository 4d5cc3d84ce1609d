package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeEntryCursor(t *testing.T) {
	// Standard values
	entryDate := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	token := EncodeEntryCursor(entryDate, "JE-2026-000042")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedNumber, err := DecodeEntryCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedDate)
	assert.Equal(t, "JE-2026-000042", decodedNumber)

	// Current time keeps nanosecond precision
	now := time.Now().UTC()
	decodedNow, _, err := DecodeEntryCursor(EncodeEntryCursor(now, "JE-2026-000001"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow))
}

func TestDecodeEntryCursor_Invalid(t *testing.T) {
	_, _, err := DecodeEntryCursor("not-base64!!")
	assert.Error(t, err, "Invalid base64 should fail")

	_, _, err = DecodeEntryCursor(base64.StdEncoding.EncodeToString([]byte("only-one-field")))
	assert.Error(t, err, "Missing separator should fail")

	_, _, err = DecodeEntryCursor(base64.StdEncoding.EncodeToString([]byte("yesterday|JE-2026-000001")))
	assert.Error(t, err, "Unparseable date should fail")
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fields)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, 5, ClampLimit(5))
	assert.Equal(t, MaxLimit, ClampLimit(1000))
}
