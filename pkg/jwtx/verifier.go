package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures the expectations every token must meet.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values, one of which the token must contain. Empty means
	// "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

var supportedAlgs = []string{
	jwt.SigningMethodEdDSA.Alg(),
	jwt.SigningMethodES256.Alg(),
	jwt.SigningMethodRS256.Alg(),
}

// KeySetVerifier checks tokens signed with EdDSA, ES256 or RS256 against
// the keys in a KeySet. The kid header selects the key and the key type
// must match the token's alg.
type KeySetVerifier struct {
	keys *KeySet
	opts VerifyOptions
}

func NewKeySetVerifier(keys *KeySet, opts VerifyOptions) *KeySetVerifier {
	return &KeySetVerifier{keys: keys, opts: opts}
}

func (v *KeySetVerifier) now() time.Time {
	if v.opts.Now != nil {
		return v.opts.Now().UTC()
	}
	return time.Now().UTC()
}

func (v *KeySetVerifier) Verify(tokenStr string) (Claims, error) {
	// exp/nbf are checked below with our own clock and leeway.
	parser := jwt.NewParser(
		jwt.WithValidMethods(supportedAlgs),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, v.keyFunc)
	if err != nil {
		return Claims{}, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: sub and exp are required", ErrInvalidClaim)
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.now(), v.opts.Leeway); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

func (v *KeySetVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}

	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}

	var ok bool
	switch t.Method.Alg() {
	case jwt.SigningMethodEdDSA.Alg():
		_, ok = pub.(ed25519.PublicKey)
	case jwt.SigningMethodES256.Alg():
		_, ok = pub.(*ecdsa.PublicKey)
	case jwt.SigningMethodRS256.Alg():
		_, ok = pub.(*rsa.PublicKey)
	}
	if !ok {
		return nil, fmt.Errorf("%w: key %q cannot verify %s", ErrAlgMismatch, kid, t.Method.Alg())
	}
	return pub, nil
}

// classify maps parser failures onto this package's sentinels while keeping
// the original error in the chain.
func classify(err error) error {
	for _, target := range []error{ErrUnknownKID, ErrAlgMismatch} {
		if errors.Is(err, target) {
			return err
		}
	}
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
