package helpers

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gorilla/mux"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type contextKey string

const (
	ContextKeyIdentity contextKey = "identity"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Identity is the authenticated admin attached to a request.
type Identity struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ContextKeyIdentity).(Identity)
	return id, ok
}

type CookieOptions struct {
	Path   string
	Secure bool
}

func SetCookie(w http.ResponseWriter, name, value string, expires time.Duration, opts CookieOptions) {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(expires),
		MaxAge:   int(expires.Seconds()),
		Path:     path,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetCookie(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func ClearCookie(w http.ResponseWriter, name string, opts CookieOptions) {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     path,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

var slugSeparator = regexp.MustCompile("[^a-z0-9]+")

// GenerateSlug lowercases s, folds accented letters to ASCII and joins the
// remaining alphanumeric runs with single hyphens.
func GenerateSlug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = slugSeparator.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// ParseID reads a positive integer route variable.
func ParseID(r *http.Request, key, invalidMsg string) (uint, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, NewBadRequest(invalidMsg)
	}
	return uint(id), nil
}
