package correlation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	tokenPrefix = "sv1"
	macLength   = 16
)

// ErrInvalidToken is returned for any reference that does not parse and
// verify exactly. Callers treat it as a missing correlation, never a guess.
var ErrInvalidToken = errors.New("invalid correlation token")

// Codec mints and parses the opaque reference a charge carries through an
// external processor. Tokens are HMAC-signed so a forged or mangled
// reference never resolves to an investment.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("correlation secret is required")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Mint produces the reference for an investment, attached to the charge as
// the merchant reference (tx_ref on Flutterwave).
func (c *Codec) Mint(investmentID uuid.UUID) string {
	payload := investmentID[:]
	return fmt.Sprintf("%s.%s.%s",
		tokenPrefix,
		base64.RawURLEncoding.EncodeToString(payload),
		base64.RawURLEncoding.EncodeToString(c.sign(payload)),
	)
}

// Parse recovers the investment ID from a minted reference. Every structural
// or cryptographic mismatch returns ErrInvalidToken.
func (c *Codec) Parse(token string) (uuid.UUID, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 || parts[0] != tokenPrefix {
		return uuid.Nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(payload) != 16 {
		return uuid.Nil, ErrInvalidToken
	}

	mac, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	if !hmac.Equal(mac, c.sign(payload)) {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.FromBytes(payload)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (c *Codec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)[:macLength]
}
