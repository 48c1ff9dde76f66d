// Package assets decodes uploaded data URLs and stores the resulting files.
package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrNotDataURL = errors.New("assets: not a base64 data URL")

// Payload is a decoded upload. MIME is sniffed from the bytes, not taken from the
// declared media type.
type Payload struct {
	Data []byte
	MIME *mimetype.MIME
}

func (p Payload) IsImage() bool { return strings.HasPrefix(p.MIME.String(), "image/") }

// IsDocument reports whether the payload is acceptable as an identity document scan.
func (p Payload) IsDocument() bool { return p.IsImage() || p.MIME.Is("application/pdf") }

// Decode parses "data:<type>;base64,<payload>".
func Decode(dataURL string) (Payload, error) {
	s := strings.TrimSpace(dataURL)
	if !strings.HasPrefix(s, "data:") {
		return Payload{}, ErrNotDataURL
	}
	meta, body, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return Payload{}, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	if len(data) == 0 {
		return Payload{}, ErrNotDataURL
	}
	return Payload{Data: data, MIME: mimetype.Detect(data)}, nil
}

type Asset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store persists payloads under a folder and hands back a public URL.
type Store interface {
	Upload(ctx context.Context, folder string, p Payload) (Asset, error)
	Delete(ctx context.Context, url string) error
}

// Local writes assets below Dir and serves them from BaseURL (see /media/* in the server).
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Upload(ctx context.Context, folder string, p Payload) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		return Asset{}, fmt.Errorf("assets: empty folder")
	}
	key := folder + "/" + uuid.NewString() + p.MIME.Extension()
	full := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Asset{}, err
	}
	if err := os.WriteFile(full, p.Data, 0o644); err != nil {
		return Asset{}, err
	}
	return Asset{Key: key, URL: l.BaseURL + "/" + key}, nil
}

// Delete removes an asset previously returned by Upload. URLs that do not belong to
// this store and files that are already gone are ignored.
func (l *Local) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, ok := strings.CutPrefix(url, l.BaseURL+"/")
	if !ok || key == "" {
		return nil
	}
	clean := path.Clean("/" + key)
	if strings.Contains(key, "..") || clean == "/" {
		return fmt.Errorf("assets: refusing to delete %q", url)
	}
	err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(clean[1:])))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
