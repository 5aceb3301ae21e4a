// Package portal builds the interview portal links consumed by the chat
// front-end and verifies their optional signatures.
package portal

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL bounds how long a signed link stays valid. Interviews are
// due two weeks after creation, so links outlive the due date by a margin.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Claims identify the interview a link was issued for.
type Claims struct {
	Role        string `json:"role"`
	Candidate   string `json:"candidate"`
	InterviewID int    `json:"interview_id,omitempty"`
	jwt.RegisteredClaims
}

// Builder creates portal links. With an empty SigningKey links carry no
// token and Verify accepts anything.
type Builder struct {
	BaseURL    string
	SigningKey string
	TokenTTL   time.Duration
	now        func() time.Time
}

// NewBuilder creates a link builder.
func NewBuilder(baseURL, signingKey string) *Builder {
	return &Builder{BaseURL: baseURL, SigningKey: signingKey, TokenTTL: DefaultTokenTTL, now: time.Now}
}

// Params is what a portal link encodes.
type Params struct {
	Role        string
	Candidate   string
	InterviewID int
	CVFile      string
}

// Link renders the URL. InterviewID 0 omits the interview_id parameter,
// which is the case for the first write before the record id is known.
func (b *Builder) Link(p Params) (string, error) {
	q := url.Values{}
	q.Set("role", p.Role)
	q.Set("candidate", p.Candidate)
	if p.InterviewID != 0 {
		q.Set("interview_id", strconv.Itoa(p.InterviewID))
	}
	if p.CVFile != "" {
		q.Set("cv", p.CVFile)
	}

	if b.SigningKey != "" {
		token, err := b.sign(p)
		if err != nil {
			return "", err
		}
		q.Set("token", token)
	}

	base := b.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "?" + encode(q), nil
}

// Verify checks a token against the expected parameters. Without a signing
// key every request is accepted.
func (b *Builder) Verify(token string, p Params) error {
	if b.SigningKey == "" {
		return nil
	}
	if token == "" {
		return fmt.Errorf("portal token is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(b.SigningKey), nil
	}, jwt.WithTimeFunc(b.clock()))
	if err != nil {
		return fmt.Errorf("invalid portal token: %w", err)
	}

	if claims.Role != p.Role || claims.Candidate != p.Candidate {
		return fmt.Errorf("portal token does not match role/candidate")
	}
	if claims.InterviewID != 0 && p.InterviewID != 0 && claims.InterviewID != p.InterviewID {
		return fmt.Errorf("portal token does not match interview %d", p.InterviewID)
	}
	return nil
}

func (b *Builder) sign(p Params) (string, error) {
	now := b.clock()()
	ttl := b.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	claims := &Claims{
		Role:        p.Role,
		Candidate:   p.Candidate,
		InterviewID: p.InterviewID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(b.SigningKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign portal token: %w", err)
	}
	return signed, nil
}

func (b *Builder) clock() func() time.Time {
	if b.now != nil {
		return b.now
	}
	return time.Now
}

// encode renders query values in a fixed order, percent-encoding spaces as
// %20 rather than "+".
func encode(q url.Values) string {
	order := []string{"role", "candidate", "interview_id", "cv", "token"}
	parts := make([]string, 0, len(q))
	for _, key := range order {
		if v := q.Get(key); v != "" {
			parts = append(parts, key+"="+strings.ReplaceAll(url.QueryEscape(v), "+", "%20"))
		}
	}
	return strings.Join(parts, "&")
}
