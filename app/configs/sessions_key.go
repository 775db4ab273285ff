package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

const newKeysFile = ".env.new_keys"

type SessionKeys struct {
	AccessSecret  string
	RefreshSecret string
}

// GenerateSessionKeys creates two independent 64 byte signing secrets.
func GenerateSessionKeys() (*SessionKeys, error) {
	access := securecookie.GenerateRandomKey(64)
	if access == nil {
		return nil, fmt.Errorf("could not generate access token secret")
	}
	refresh := securecookie.GenerateRandomKey(64)
	if refresh == nil {
		return nil, fmt.Errorf("could not generate refresh token secret")
	}

	return &SessionKeys{
		AccessSecret:  base64.RawURLEncoding.EncodeToString(access),
		RefreshSecret: base64.RawURLEncoding.EncodeToString(refresh),
	}, nil
}

func (k *SessionKeys) WriteEnv(w io.Writer) error {
	_, err := fmt.Fprintf(w, "JWT_SECRET=%s\nJWT_REFRESH_SECRET=%s\n", k.AccessSecret, k.RefreshSecret)
	return err
}

func GenerateAndPrintSessionKeys(out io.Writer) error {
	keys, err := GenerateSessionKeys()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "================================================")
	if err := keys.WriteEnv(out); err != nil {
		return err
	}
	fmt.Fprintln(out, "================================================")

	file, err := os.OpenFile(newKeysFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", newKeysFile, err)
	}
	defer file.Close()

	if err := keys.WriteEnv(file); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", newKeysFile, err)
	}

	fmt.Fprintf(out, "Keys have been written to '%s'. Copy them into your .env file.\n", newKeysFile)
	fmt.Fprintln(out, "Regenerating the keys signs every admin out.")
	return nil
}
