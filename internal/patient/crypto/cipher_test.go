package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtrust/internal/patient"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x4d}, 32)
}

func TestNewFieldCipher(t *testing.T) {
	t.Run("rejects short key", func(t *testing.T) {
		_, err := NewFieldCipher([]byte("too-short"))
		require.Error(t, err)
	})

	t.Run("accepts 32-byte key", func(t *testing.T) {
		c, err := NewFieldCipher(testKey())
		require.NoError(t, err)
		require.NotNil(t, c)
	})
}

func TestFieldRoundTrip(t *testing.T) {
	c, err := NewFieldCipher(testKey())
	require.NoError(t, err)

	sealed, err := c.EncryptField("acute myocardial infarction")
	require.NoError(t, err)
	assert.NotEqual(t, "acute myocardial infarction", sealed)

	plain, err := c.DecryptField(sealed)
	require.NoError(t, err)
	assert.Equal(t, "acute myocardial infarction", plain)
}

func TestDecryptRejectsTampering(t *testing.T) {
	c, err := NewFieldCipher(testKey())
	require.NoError(t, err)

	sealed, err := c.EncryptField("confidential")
	require.NoError(t, err)

	// Flip a character in the middle of the base64 payload.
	tampered := []byte(sealed)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = c.DecryptField(string(tampered))
	require.Error(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	c, err := NewFieldCipher(testKey())
	require.NoError(t, err)

	rec := &patient.Record{
		ID:        "p-001",
		Name:      "John Carter",
		Age:       61,
		Diagnosis: "type 2 diabetes",
		Treatment: "metformin 500mg",
		Notes:     "monitor HbA1c quarterly",
	}

	sealed, err := c.Encrypt(rec)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, sealed.Name)
	assert.NotEqual(t, rec.Diagnosis, sealed.Diagnosis)

	opened, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, rec, opened)

	// Original sealed record must be untouched.
	assert.NotEqual(t, rec.Diagnosis, sealed.Diagnosis)
}

// Every field the model declares sensitive must come back sealed.
func TestEncryptCoversAllSensitiveFields(t *testing.T) {
	c, err := NewFieldCipher(testKey())
	require.NoError(t, err)

	rec := &patient.Record{
		ID:        "p-003",
		Name:      "Mark Greene",
		Age:       50,
		Diagnosis: "glioblastoma",
		Treatment: "radiation therapy",
		Notes:     "weekly neuro checks",
	}

	sealed, err := c.Encrypt(rec)
	require.NoError(t, err)

	plain := sensitivePointers(rec)
	got := sensitivePointers(sealed)
	for _, name := range patient.SensitiveFields {
		require.Contains(t, got, name)
		assert.NotEqual(t, *plain[name], *got[name], "field %s not sealed", name)
	}
}

func TestDecryptSkipsEmptyFields(t *testing.T) {
	c, err := NewFieldCipher(testKey())
	require.NoError(t, err)

	rec := &patient.Record{ID: "p-002", Name: "Susan Lewis", Age: 45}
	opened, err := c.Decrypt(rec)
	require.NoError(t, err)
	assert.Equal(t, rec, opened)
}
