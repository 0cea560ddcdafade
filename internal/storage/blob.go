package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrForeignURL is returned for URLs that do not point into this store.
var ErrForeignURL = errors.New("url is not managed by this store")

const keyPrefix = "papers/"

// BlobStore addresses stored files by their public URL, which is what paper
// records carry.
type BlobStore interface {
	// Upload stores the content and returns its public URL.
	Upload(ctx context.Context, r io.Reader, name, contentType string, size int64) (string, error)
	// DeleteByURL removes the object behind rawURL. A missing object is not an error.
	DeleteByURL(ctx context.Context, rawURL string) error
	// SignedURL returns a time-limited download URL for an owned URL.
	// A URL whose object is gone yields ErrObjectNotFound.
	SignedURL(ctx context.Context, rawURL string, expiry time.Duration) (string, error)
	// Owns reports whether rawURL points into this store.
	Owns(rawURL string) bool
}

type blobStore struct {
	store   Storage
	baseURL string
	now     func() time.Time
}

// NewBlobStore maps URLs under baseURL onto object keys in store.
func NewBlobStore(store Storage, baseURL string) BlobStore {
	return &blobStore{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (b *blobStore) Upload(ctx context.Context, r io.Reader, name, contentType string, size int64) (string, error) {
	key := keyPrefix + strconv.FormatInt(b.now().UnixMilli(), 10) + "-" + sanitizeName(name)
	if size <= 0 {
		size = -1
	}
	if _, err := b.store.Put(ctx, key, r, PutObjectOptions{Size: size, ContentType: contentType}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

func (b *blobStore) DeleteByURL(ctx context.Context, rawURL string) error {
	key, err := b.key(rawURL)
	if err != nil {
		return err
	}
	if err := b.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrObjectNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *blobStore) SignedURL(ctx context.Context, rawURL string, expiry time.Duration) (string, error) {
	key, err := b.key(rawURL)
	if err != nil {
		return "", err
	}
	ok, err := b.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", key, err)
	}
	if !ok {
		return "", fmt.Errorf("sign %s: %w", key, ErrObjectNotFound)
	}
	u, err := b.store.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	return u, nil
}

func (b *blobStore) Owns(rawURL string) bool {
	_, err := b.key(rawURL)
	return err == nil
}

// key strips the base URL and any query string from rawURL.
func (b *blobStore) key(rawURL string) (string, error) {
	rest, ok := strings.CutPrefix(rawURL, b.baseURL+"/")
	if !ok || b.baseURL == "" {
		return "", ErrForeignURL
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", ErrForeignURL
	}
	return rest, nil
}

// sanitizeName keeps the base name and replaces anything outside [A-Za-z0-9._-].
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
