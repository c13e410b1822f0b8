// Package edbocrypt decrypts the per-record encrypted fields (applicant names and
// priorities) served by the admission listing endpoint.
//
// The key is not a shared secret, it is derived from two integers that travel with
// the record itself, so every record has its own key.
package edbocrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	subtractionConstant = 7500
	ivSeed              = "2025"
	keySize             = 32
	ivSize              = 16
)

var (
	ErrBase64  = errors.New("malformed base64")
	ErrUTF8    = errors.New("invalid utf-8")
	ErrPadding = errors.New("invalid pkcs7 padding")
)

type Kind int

const (
	KindBase64Outer Kind = iota + 1
	KindUTF8Intermediate
	KindBase64Inner
	KindCiphertextLength
	KindPadding
	KindUTF8
)

func (k Kind) String() string {
	switch k {
	case KindBase64Outer:
		return "outer base64 decode"
	case KindUTF8Intermediate:
		return "intermediate utf-8"
	case KindBase64Inner:
		return "inner base64 decode"
	case KindCiphertextLength:
		return "ciphertext length"
	case KindPadding:
		return "pkcs7 unpad"
	case KindUTF8:
		return "plaintext utf-8"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DecryptError is returned for every decryption failure. Errors.Is matches it
// against ErrBase64, ErrUTF8 or ErrPadding depending on the failing stage.
type DecryptError struct {
	Kind Kind
	Err  error
}

func (e *DecryptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decrypt: %s failed", e.Kind)
	}
	return fmt.Sprintf("decrypt: %s failed: %s", e.Kind, e.Err)
}

func (e *DecryptError) Unwrap() error {
	return e.Err
}

func (e *DecryptError) Is(target error) bool {
	switch target {
	case ErrBase64:
		return e.Kind == KindBase64Outer || e.Kind == KindBase64Inner
	case ErrUTF8:
		return e.Kind == KindUTF8Intermediate || e.Kind == KindUTF8
	case ErrPadding:
		return e.Kind == KindPadding || e.Kind == KindCiphertextLength
	}
	return false
}

// truncated hex digest of the input, used verbatim as key or iv bytes.
func hexMaterial(seed string, size int) []byte {
	sum := sha256.Sum256([]byte(seed))
	out := make([]byte, size)
	copy(out, hex.EncodeToString(sum[:]))
	return out
}

var iv = hexMaterial(ivSeed, ivSize)

func keySeed(number, recordID int64) string {
	return "v" + strconv.FormatInt(number*(subtractionConstant-recordID), 10)
}

// DeriveKey returns the raw AES-256 key for a record.
func DeriveKey(number, recordID int64) []byte {
	return hexMaterial(keySeed(number, recordID), keySize)
}

// DeriveIV returns the raw AES IV shared by every record.
func DeriveIV() []byte {
	out := make([]byte, ivSize)
	copy(out, iv)
	return out
}

func decodeCiphertext(ciphertext string) ([]byte, error) {
	intermediate, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, &DecryptError{Kind: KindBase64Outer, Err: err}
	}
	if !utf8.Valid(intermediate) {
		return nil, &DecryptError{Kind: KindUTF8Intermediate}
	}
	raw, err := base64.StdEncoding.DecodeString(string(intermediate))
	if err != nil {
		return nil, &DecryptError{Kind: KindBase64Inner, Err: err}
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, &DecryptError{
			Kind: KindCiphertextLength,
			Err:  fmt.Errorf("%d bytes is not a positive multiple of %d", len(raw), aes.BlockSize),
		}
	}
	return raw, nil
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, &DecryptError{Kind: KindPadding, Err: fmt.Errorf("pad length %d", n)}
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, &DecryptError{Kind: KindPadding, Err: fmt.Errorf("inconsistent pad bytes")}
		}
	}
	return data[:len(data)-n], nil
}

func decryptWith(block cipher.Block, ciphertext string) (string, error) {
	raw, err := decodeCiphertext(ciphertext)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, raw)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", &DecryptError{Kind: KindUTF8}
	}
	return string(plain), nil
}

// Decrypt decodes a double base64 encoded AES-256-CBC ciphertext using the key
// derived from the record's sequence number and record id.
func Decrypt(ciphertext string, number, recordID int64) (string, error) {
	block, err := aes.NewCipher(DeriveKey(number, recordID))
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return decryptWith(block, ciphertext)
}

// Codec is Decrypt with a cache of derived cipher blocks. A listing page repeats
// the same (number, record id) products a lot, so the sha256 + key schedule is
// only paid once per distinct product.
type Codec struct {
	blocks *lru.Cache[string, cipher.Block]
}

const defaultCacheSize = 256

func NewCodec() *Codec {
	cache, err := lru.New[string, cipher.Block](defaultCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Codec{blocks: cache}
}

func (c *Codec) Decrypt(ciphertext string, number, recordID int64) (string, error) {
	seed := keySeed(number, recordID)
	block, ok := c.blocks.Get(seed)
	if !ok {
		var err error
		block, err = aes.NewCipher(hexMaterial(seed, keySize))
		if err != nil {
			return "", fmt.Errorf("decrypt: %w", err)
		}
		c.blocks.Add(seed, block)
	}
	return decryptWith(block, ciphertext)
}
