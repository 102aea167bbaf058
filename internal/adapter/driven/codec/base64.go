package codec

import (
	"encoding/base64"
	"fmt"

	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SecretCodec = Base64{}

// Base64 encodes secrets as standard base64 of their UTF-8 bytes. It has no
// key and offers no confidentiality: anyone with the stored value can read the
// secret. It is deterministic, which makes stored values comparable in tests.
type Base64 struct{}

// Name returns "base64".
func (Base64) Name() string { return NameBase64 }

// Encode never fails.
func (Base64) Encode(plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

// Decode returns ErrMalformedSecret (wrapped) for input outside the base64 alphabet
// or with bad padding.
func (Base64) Decode(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode: %w", driven.ErrMalformedSecret, err)
	}
	return string(data), nil
}
