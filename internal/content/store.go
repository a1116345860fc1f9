package content

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"emailpost/internal/model"
)

const fileMode = 0o644

// Store writes entries as markdown files with a YAML header.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Save writes <entry.Path>/<entry.Name>. An existing file is replaced.
func (s *Store) Save(ctx context.Context, e *model.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Path == "" || e.Name == "" {
		return fmt.Errorf("entry has no path")
	}

	doc, err := render(e)
	if err != nil {
		return err
	}

	target := filepath.Join(e.Path, e.Name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, doc, fileMode); err != nil {
		return fmt.Errorf("write %s: %w", e.Name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", e.Name, err)
	}
	return nil
}

func render(e *model.Entry) ([]byte, error) {
	header, err := yaml.Marshal(e.Header)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(e.Content)
	if !strings.HasSuffix(e.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Folders creates entry directories on the local filesystem.
type Folders struct{}

// Exists reports whether path is an existing directory.
func (Folders) Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Create makes path and any missing parents.
func (Folders) Create(path string) error {
	return os.MkdirAll(path, 0o755)
}
