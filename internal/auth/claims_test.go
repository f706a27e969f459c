package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"
)

func makeToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".signature"
}

func tokenExpiringAt(exp time.Time) string {
	return makeToken(fmt.Sprintf(`{"id":"u1","exp":%d}`, exp.Unix()))
}

func TestDecodeClaimsReadsExpiry(t *testing.T) {
	exp := time.Unix(1900000000, 0)
	claims, err := DecodeClaims(tokenExpiringAt(exp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expected exp %v, got %v", exp, claims.ExpiresAt)
	}
	if id, ok := claims.Get("id"); !ok || id != "u1" {
		t.Fatalf("expected id claim u1, got %v (%v)", id, ok)
	}
}

func TestDecodeClaimsAcceptsPaddedPayload(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"exp":1900000000}`))
	claims, err := DecodeClaims("h." + payload + ".s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ExpiresAt.Unix() != 1900000000 {
		t.Fatalf("unexpected exp %v", claims.ExpiresAt)
	}
}

func TestDecodeClaimsRejectsMalformedTokens(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"two segments":   "abc.def",
		"four segments":  "a.b.c.d",
		"empty payload":  "a..c",
		"bad base64":     "a.!!!.c",
		"not json":       "a." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".c",
		"json array":     makeToken(`[1,2,3]`),
		"json null":      makeToken(`null`),
		"exp not number": makeToken(`{"exp":"tomorrow"}`),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeClaims(token); !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}

func TestDecodeClaimsRequiresExp(t *testing.T) {
	if _, err := DecodeClaims(makeToken(`{"id":"u1"}`)); !errors.Is(err, ErrTokenNoExpiry) {
		t.Fatalf("expected ErrTokenNoExpiry, got %v", err)
	}
}
