package catalogd

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	otpTTL          = 5 * time.Minute
	accessTokenTTL  = 5 * time.Minute
	refreshTokenTTL = 24 * time.Hour
)

var errInvalidOTP = errors.New("invalid or expired OTP")

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// otpStore issues login codes and redeems them for user ids.
type otpStore interface {
	issue(phone string) (string, error)
	redeem(phone, code string) (userID int64, created bool, err error)
}

// otpBook tracks outstanding login codes and the users they log in.
type otpBook struct {
	mu      sync.Mutex
	now     func() time.Time
	fixed   string
	pending map[string]otpEntry
	users   map[string]int64
	nextID  int64
}

func newOTPBook(fixed string) *otpBook {
	return &otpBook{
		now:     time.Now,
		fixed:   fixed,
		pending: make(map[string]otpEntry),
		users:   make(map[string]int64),
		nextID:  1,
	}
}

// issue replaces any outstanding code for phone.
func (b *otpBook) issue(phone string) (string, error) {
	code := b.fixed
	if code == "" {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		code = fmt.Sprintf("%06d", n.Int64()+100000)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[phone] = otpEntry{code: code, expiresAt: b.now().Add(otpTTL)}
	return code, nil
}

// redeem consumes a code and returns the user id, creating the user on
// first login.
func (b *otpBook) redeem(phone, code string) (userID int64, created bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.pending[phone]
	if !ok || entry.code != code || !b.now().Before(entry.expiresAt) {
		return 0, false, errInvalidOTP
	}
	delete(b.pending, phone)
	if id, ok := b.users[phone]; ok {
		return id, false, nil
	}
	id := b.nextID
	b.nextID++
	b.users[phone] = id
	return id, true, nil
}

// tokenIssuer signs HS256 access and refresh tokens.
type tokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func (t tokenIssuer) issue(userID int64) (access, refresh string, err error) {
	access, err = t.sign(userID, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.sign(userID, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t tokenIssuer) sign(userID int64, kind string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"token_type": kind,
		"user_id":    userID,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// verify checks signature and expiry and returns the user id.
func (t tokenIssuer) verify(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return 0, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims")
	}
	if claims["token_type"] != "access" {
		return 0, errors.New("not an access token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid user_id claim")
	}
	return int64(id), nil
}
