package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

const (
	TOKEN_BYTES = 16
	ISSUER      = constants.APP_NAME
)

// Issuer derives the cart partition key of a browser from its session
// cookie, creating one when absent.
type Issuer struct {
	cookieName string
	maxAge     time.Duration
	secure     bool
	signingKey []byte
	now        func() time.Time
}

func NewIssuer(cfg config.Session) *Issuer {
	issuer := &Issuer{
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     cfg.Secure,
		now:        time.Now,
	}
	if cfg.SigningKey != "" {
		issuer.signingKey = []byte(cfg.SigningKey)
	}
	return issuer
}

// SessionID returns the token of the request cookie without issuing one.
// An empty cookie value still counts as present.
func (i *Issuer) SessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(i.cookieName)
	if err != nil {
		return "", false
	}
	if i.signingKey == nil {
		return cookie.Value, true
	}
	token, err := i.verify(cookie.Value)
	if err != nil {
		return "", false
	}
	return token, true
}

// EnsureSessionID returns the request token, or generates one, sets it as a
// cookie on w and records it on r so later reads in the same request see it.
func (i *Issuer) EnsureSessionID(w http.ResponseWriter, r *http.Request) string {
	c, span := otel.Tracer.Start(r.Context(), "session EnsureSessionID")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "session EnsureSessionID").
		Logger()

	if token, ok := i.SessionID(r); ok {
		return token
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "generating session id").Logger()
	logger.Trace().Msg("generating session id")
	token := newToken(logger)
	logger.Info().Msg("generated session id")

	value := token
	if i.signingKey != nil {
		signed, err := i.sign(token)
		if err != nil {
			err = fmt.Errorf("failed signing session id with error=%w", err)
			otel.RecordError(err, span)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		value = signed
	}

	cookie := &http.Cookie{
		Name:     i.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(i.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	issued := (&http.Cookie{Name: cookie.Name, Value: cookie.Value}).String()
	if existing := r.Header.Get("Cookie"); existing != "" {
		issued = issued + "; " + existing
	}
	r.Header.Set("Cookie", issued)

	return token
}

func newToken(logger zerolog.Logger) string {
	buf := make([]byte, TOKEN_BYTES)
	if _, err := rand.Read(buf); err != nil {
		err = fmt.Errorf("failed reading random bytes with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	return hex.EncodeToString(buf)
}

func (i *Issuer) sign(token string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   token,
		Issuer:    ISSUER,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.maxAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
}

func (i *Issuer) verify(value string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		value,
		&claims,
		func(t *jwt.Token) (interface{}, error) { return i.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(ISSUER),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return claims.Subject, nil
}
