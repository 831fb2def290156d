package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMissingBrowserID is returned when a token is requested without a browser id
var ErrMissingBrowserID = errors.New("browser ID is required")

// CSRFGenerator issues form tokens bound to a browser profile id. A token is
// "<unix seconds>.<hmac>" and stays valid for maxAge.
type CSRFGenerator struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCSRFGenerator creates a generator whose tokens expire after maxAge
func NewCSRFGenerator(secret string, maxAge time.Duration) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret), maxAge: maxAge, now: time.Now}
}

// GenerateToken returns a fresh token for browserID
func (g *CSRFGenerator) GenerateToken(browserID string) (string, error) {
	if browserID == "" {
		return "", ErrMissingBrowserID
	}
	issued := strconv.FormatInt(g.now().Unix(), 10)
	return issued + "." + g.sign(browserID, issued), nil
}

// ValidateToken reports whether token was issued for browserID and has not expired
func (g *CSRFGenerator) ValidateToken(browserID, token string) bool {
	if browserID == "" || token == "" {
		return false
	}
	issued, mac, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	ts, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return false
	}
	if g.now().Sub(time.Unix(ts, 0)) > g.maxAge {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(g.sign(browserID, issued)))
}

func (g *CSRFGenerator) sign(browserID, issued string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(browserID))
	mac.Write([]byte{0})
	mac.Write([]byte(issued))
	return hex.EncodeToString(mac.Sum(nil))
}
