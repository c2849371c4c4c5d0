package gateway

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenSource yields the bearer token attached to outgoing requests. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token(c context.Context) (string, error)
}

type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// FileToken keeps the admin token in a file between console invocations.
type FileToken struct {
	Path string
}

func (f FileToken) Token(context.Context) (string, error) {
	if f.Path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed reading token file=%s with error=%w", f.Path, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f FileToken) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed creating token dir with error=%w", err)
	}
	if err := os.WriteFile(f.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed writing token file=%s with error=%w", f.Path, err)
	}
	return nil
}

func (f FileToken) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed removing token file=%s with error=%w", f.Path, err)
	}
	return nil
}

type forwardedToken struct{}

// AttachToken stores the caller's token so ForwardedToken can pass it on.
func AttachToken(c context.Context, token string) context.Context {
	return context.WithValue(c, forwardedToken{}, token)
}

// ForwardedToken relays the token of the request being served.
func ForwardedToken() TokenSource {
	return forwarded{}
}

type forwarded struct{}

func (forwarded) Token(c context.Context) (string, error) {
	token, _ := c.Value(forwardedToken{}).(string)
	return token, nil
}
