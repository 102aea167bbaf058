package driven

import "errors"

// ErrMalformedSecret is returned by SecretCodec.Decode when the input is not
// something Encode could have produced (bad alphabet, truncated, or failed
// authentication).
var ErrMalformedSecret = errors.New("malformed secret")

// SecretCodec turns a plaintext secret into its at-rest form and back.
// Decode(Encode(x)) must equal x for every x.
type SecretCodec interface {
	// Name identifies the codec in configuration and logs.
	Name() string
	Encode(plaintext string) (string, error)
	Decode(encoded string) (string, error)
}
