// Package invite implements the signed invite token: the only state that
// travels between payer and claimant. Tokens are self-authenticating because
// there is no server session to consult.
package invite

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"splitlink/internal/models"
)

var (
	// ErrMissingSecret means the signing secret is empty or unset. Fatal to
	// sign/verify, not retryable without fixing configuration.
	ErrMissingSecret = errors.New("invite signing secret is not configured")

	// ErrMalformedToken means the token does not have the expected
	// two-segment base64url structure.
	ErrMalformedToken = errors.New("malformed invite token")

	// ErrInvalidSignature means the HMAC tag does not match the payload.
	ErrInvalidSignature = errors.New("invalid invite token signature")
)

// Strict decoding rejects non-zero trailing padding bits, so two distinct
// token strings never alias to the same payload bytes.
var b64 = base64.RawURLEncoding.Strict()

// Codec signs and verifies invite payloads with a symmetric secret.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec keyed by secret. An empty secret is allowed at
// construction; Sign and Verify report ErrMissingSecret when used.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Sign validates and normalizes the payload, then produces a compact token:
// base64url(canonical payload JSON) + "." + base64url(HMAC-SHA256 tag),
// both segments unpadded. The normalized form is what gets signed, so
// semantically equal payloads always yield identical payload bytes and
// verify(Sign(p)) round-trips byte for byte.
func (c *Codec) Sign(p *models.InvitePayload) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrMissingSecret
	}

	normalized := p.Normalized()
	if err := normalized.Validate(); err != nil {
		return "", err
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}

	return b64.EncodeToString(data) + "." + b64.EncodeToString(c.tag(data)), nil
}

// Verify authenticates a token and returns the normalized payload.
// Failure modes, in check order: ErrMalformedToken for structural problems,
// ErrInvalidSignature for a tag mismatch (constant-time comparison), and a
// *models.ValidationError when authenticated bytes fail schema validation.
func (c *Codec) Verify(token string) (*models.InvitePayload, error) {
	if len(c.secret) == 0 {
		return nil, ErrMissingSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformedToken
	}

	data, err := b64.DecodeString(parts[0])
	if err != nil {
		return nil, ErrMalformedToken
	}
	tag, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}

	if !hmac.Equal(tag, c.tag(data)) {
		return nil, ErrInvalidSignature
	}

	var payload models.InvitePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &models.ValidationError{Fields: []string{"payload is not valid JSON"}}
	}
	payload.Normalize()
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	return &payload, nil
}

func (c *Codec) tag(data []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(data)
	return mac.Sum(nil)
}
