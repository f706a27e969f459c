package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenNoExpiry  = errors.New("token has no exp claim")
)

// Claims is the unverified payload of a stored bearer token.
type Claims struct {
	raw       jwt.MapClaims
	ExpiresAt time.Time
}

// Get returns a raw claim value.
func (c Claims) Get(name string) (any, bool) {
	v, ok := c.raw[name]
	return v, ok
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims base64url-decodes the payload segment of token and reads its exp claim.
// The signature is not verified: the client only needs to know when to stop sending it.
func DecodeClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return Claims{}, fmt.Errorf("%w: expected 3 segments", ErrTokenMalformed)
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: decode payload: %v", ErrTokenMalformed, err)
	}

	var raw jwt.MapClaims
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, fmt.Errorf("%w: payload is not a JSON object: %v", ErrTokenMalformed, err)
	}
	if raw == nil {
		return Claims{}, fmt.Errorf("%w: payload is null", ErrTokenMalformed)
	}

	exp, err := raw.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if exp == nil {
		return Claims{}, ErrTokenNoExpiry
	}
	return Claims{raw: raw, ExpiresAt: exp.Time}, nil
}
