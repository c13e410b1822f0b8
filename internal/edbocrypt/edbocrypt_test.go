package edbocrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecryptVectors(t *testing.T) {
	testCases := []struct {
		ciphertext string
		number     int64
		recordID   int64
		expected   string
	}{
		{
			ciphertext: "MGRoaTJ5eFE3d05GWU0vNjVDcmlJNUNkb3FRZk5nQnhmUTF5ZVh1RDNDaz0=",
			number:     1,
			recordID:   6,
			expected:   "Ковальов О. О.",
		},
		{
			ciphertext: "UjFiVWJrMUlGOTkwbXlqSVNkZ21nOURXdDBRNFFMODNwaS84MlM3eG5Kaz0=",
			number:     4,
			recordID:   5,
			expected:   "Карбан К. А.",
		},
		{
			ciphertext: "TTdMQmt4ZkFlN2JqZnA1L1ZZMkhUSmsyL3FrSU53UHRJdGcvMnFnaUV6bz0=",
			number:     7,
			recordID:   6,
			expected:   "Дем`янчук О. П.",
		},
		{
			ciphertext: "N1dtV2NNSmkrRjlSWnV5cmJkSWd3UT09",
			number:     7,
			recordID:   6,
			expected:   "4 (Б)",
		},
	}

	codec := NewCodec()
	for _, test := range testCases {
		plain, err := Decrypt(test.ciphertext, test.number, test.recordID)
		require.NoError(t, err)
		require.Equal(t, test.expected, plain)

		// twice through the codec to exercise the cached block
		for i := 0; i < 2; i++ {
			plain, err = codec.Decrypt(test.ciphertext, test.number, test.recordID)
			require.NoError(t, err)
			require.Equal(t, test.expected, plain)
		}
	}
}

func TestDeriveKey(t *testing.T) {
	key := DeriveKey(1, 6)
	require.Len(t, key, 32)
	require.Len(t, DeriveIV(), 16)

	// the key is ascii hex, not decoded bytes
	for _, b := range key {
		require.True(t, (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f'), "byte %q", b)
	}

	require.Equal(t, DeriveKey(2, 7499), DeriveKey(1, 7498))
	require.NotEqual(t, DeriveKey(1, 6), DeriveKey(1, 5))
}

func encryptRaw(t *testing.T, plain []byte, number, recordID int64) string {
	t.Helper()
	block, err := aes.NewCipher(DeriveKey(number, recordID))
	require.NoError(t, err)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, DeriveIV()).CryptBlocks(out, plain)
	inner := base64.StdEncoding.EncodeToString(out)
	return base64.StdEncoding.EncodeToString([]byte(inner))
}

func TestDecryptErrors(t *testing.T) {
	badPadding := make([]byte, 16)
	copy(badPadding, "hello")
	badPadding[15] = 0

	invalidUTF8 := make([]byte, 16)
	invalidUTF8[0] = 0xff
	for i := 1; i < 16; i++ {
		invalidUTF8[i] = 15
	}

	testCases := []struct {
		name       string
		ciphertext string
		kind       Kind
		sentinel   error
	}{
		{
			name:       "outer base64",
			ciphertext: "%%%not base64%%%",
			kind:       KindBase64Outer,
			sentinel:   ErrBase64,
		},
		{
			name:       "intermediate utf-8",
			ciphertext: base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}),
			kind:       KindUTF8Intermediate,
			sentinel:   ErrUTF8,
		},
		{
			name:       "inner base64",
			ciphertext: base64.StdEncoding.EncodeToString([]byte("not*base64")),
			kind:       KindBase64Inner,
			sentinel:   ErrBase64,
		},
		{
			name: "short ciphertext",
			ciphertext: base64.StdEncoding.EncodeToString(
				[]byte(base64.StdEncoding.EncodeToString([]byte("abc"))),
			),
			kind:     KindCiphertextLength,
			sentinel: ErrPadding,
		},
		{
			name:       "bad padding",
			ciphertext: encryptRaw(t, badPadding, 3, 9),
			kind:       KindPadding,
			sentinel:   ErrPadding,
		},
		{
			name:       "invalid plaintext",
			ciphertext: encryptRaw(t, invalidUTF8, 3, 9),
			kind:       KindUTF8,
			sentinel:   ErrUTF8,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decrypt(test.ciphertext, 3, 9)
			require.Error(t, err)

			var decryptErr *DecryptError
			require.True(t, errors.As(err, &decryptErr))
			require.Equal(t, test.kind, decryptErr.Kind)
			require.ErrorIs(t, err, test.sentinel)
		})
	}
}
