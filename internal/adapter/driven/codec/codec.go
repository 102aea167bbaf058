// Package codec provides the SecretCodec implementations used to turn
// credential secrets into their at-rest form.
package codec

import (
	"fmt"

	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

// Codec names accepted by New.
const (
	NameBase64            = "base64"
	NameAESGCM            = "aes-256-gcm"
	NameXChaCha20Poly1305 = "xchacha20-poly1305"
)

// New returns the codec registered under name. The AEAD codecs derive their
// key from passphrase, which must be non-empty for them; Base64 ignores it.
func New(name, passphrase string) (driven.SecretCodec, error) {
	switch name {
	case NameBase64, "":
		return Base64{}, nil
	case NameAESGCM:
		return NewAESGCM(passphrase)
	case NameXChaCha20Poly1305:
		return NewXChaCha20Poly1305(passphrase)
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// RequiresKey reports whether the named codec needs a passphrase.
func RequiresKey(name string) bool {
	return name == NameAESGCM || name == NameXChaCha20Poly1305
}
