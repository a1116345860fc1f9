package storage

import (
	"context"
	"fmt"
	"io"
)

// mirrorStorage writes every object to a primary store and then copies it
// to a secondary one. Reads are served by the primary.
type mirrorStorage struct {
	primary   Storage
	secondary Putter
}

// NewMirror combines primary and a write-only secondary into one Storage.
func NewMirror(primary Storage, secondary Putter) Storage {
	return &mirrorStorage{primary: primary, secondary: secondary}
}

func (m *mirrorStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	info, err := m.primary.Put(ctx, key, r, opt)
	if err != nil {
		return ObjectInfo{}, err
	}

	rc, _, err := m.primary.Get(ctx, key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("reopen for mirror: %w", err)
	}
	defer rc.Close()

	opt.Size = info.Size
	if _, err := m.secondary.Put(ctx, key, rc, opt); err != nil {
		return ObjectInfo{}, fmt.Errorf("mirror: %w", err)
	}
	return info, nil
}

func (m *mirrorStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	return m.primary.Get(ctx, key)
}
