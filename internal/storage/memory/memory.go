// Package memory provides an in-process blob store for development and tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"drive/internal/storage"
)

// Store keeps objects in a map. URLs it presigns are not fetchable; they only
// encode the key and disposition so callers can be exercised end to end.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

type object struct {
	data        []byte
	contentType string
}

// New creates an empty store. baseURL prefixes presigned URLs.
func New(baseURL string) *Store {
	return &Store{
		objects: make(map[string]object),
		baseURL: baseURL,
	}
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body for %s: %w", key, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("put %s: expected %d bytes, got %d", key, size, len(data))
	}

	s.mu.Lock()
	s.objects[key] = object{data: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[srcKey]
	if !ok {
		return fmt.Errorf("copy %s: %w", srcKey, storage.ErrObjectNotFound)
	}
	s.objects[dstKey] = object{data: bytes.Clone(obj.data), contentType: obj.contentType}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) PresignGet(ctx context.Context, key string, opts storage.PresignOptions) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("presign %s: %w", key, storage.ErrObjectNotFound)
	}

	disposition := "attachment"
	if opts.Inline {
		disposition = "inline"
	}
	q := url.Values{}
	q.Set("disposition", disposition)
	if opts.FileName != "" {
		q.Set("filename", opts.FileName)
	}
	return s.baseURL + "/" + key + "?" + q.Encode(), nil
}

func (s *Store) Type() string { return "memory" }

// Get returns a copy of an object's bytes
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// Len returns the number of stored objects
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
