package jwt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// segmentParser decodes base64url segments, with or without padding
var segmentParser = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// DecodeToken reads the payload segment of a bearer token. It never
// verifies the signature: the result is a best effort view for the UI and
// the server remains the trust boundary. Any malformed input yields false.
func DecodeToken(token string) (Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}

	// Accept the standard alphabet too, so both +/ and -_ decode
	seg := strings.NewReplacer("+", "-", "/", "_").Replace(parts[1])
	payload, err := segmentParser.DecodeSegment(seg)
	if err != nil || !utf8.Valid(payload) {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var claims map[string]any
	if err := dec.Decode(&claims); err != nil || claims == nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return Claims(claims), true
}

// Reader derives claims from the token held in a session store. Claims are
// recomputed on every call and never cached.
type Reader struct {
	store  sessions.Store
	now    func() time.Time
	logger zerolog.Logger
}

type ReaderOption func(*Reader)

// WithClock overrides the wall clock used by IsExpired
func WithClock(now func() time.Time) ReaderOption {
	return func(r *Reader) {
		r.now = now
	}
}

func WithReaderLogger(logger zerolog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

func NewReader(store sessions.Store, opts ...ReaderOption) *Reader {
	r := &Reader{
		store:  store,
		now:    func() time.Time { return NowTimeFunc() },
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Decode returns the claims of the persisted token, or false when there is
// no token or it cannot be read.
func (r *Reader) Decode(ctx context.Context) (Claims, bool) {
	token, err := r.store.Get(ctx)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNoToken) {
			r.logger.Warn().Err(err).Msg("reading session token")
		}
		return nil, false
	}
	claims, ok := DecodeToken(token)
	if !ok {
		r.logger.Debug().Msg("persisted token is malformed")
	}
	return claims, ok
}

func (r *Reader) InstitutionID(ctx context.Context) (int64, bool) {
	claims, ok := r.Decode(ctx)
	if !ok {
		return 0, false
	}
	return claims.InstitutionID()
}

func (r *Reader) UserID(ctx context.Context) (int64, bool) {
	claims, ok := r.Decode(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID()
}

func (r *Reader) Role(ctx context.Context) (Role, bool) {
	claims, ok := r.Decode(ctx)
	if !ok {
		return "", false
	}
	return claims.Role()
}

// IsExpired fails closed: a missing token or exp claim counts as expired.
// Otherwise the token is expired once exp*1000 is strictly before now in
// milliseconds.
func (r *Reader) IsExpired(ctx context.Context) bool {
	claims, ok := r.Decode(ctx)
	if !ok {
		return true
	}
	exp, ok := claims.ExpiresAt()
	if !ok {
		return true
	}
	return exp*1000 < r.now().UnixMilli()
}
