// Package content maps site routes onto the on-disk pages tree and persists
// entries inside it.
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"emailpost/internal/model"
)

var orderPrefix = regexp.MustCompile(`^\d+\.`)

// Tree resolves routes to content nodes below a pages root directory.
// A route segment matches a folder of the same name, or one carrying a
// numeric ordering prefix ("01.blog" serves "/blog").
type Tree struct {
	root string
}

// NewTree creates a Tree rooted at dir.
func NewTree(dir string) (*Tree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve pages root: %w", err)
	}
	return &Tree{root: abs}, nil
}

// Root returns the absolute pages root.
func (t *Tree) Root() string {
	return t.root
}

// Find returns the node at route. It fails with model.ErrNodeNotFound when a
// segment has no matching folder or the folder holds no markdown page.
func (t *Tree) Find(ctx context.Context, route string) (*model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := t.root
	var rel []string
	for _, seg := range strings.Split(strings.Trim(route, "/"), "/") {
		if seg == "" {
			continue
		}
		name, err := matchSegment(dir, seg)
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(dir, name)
		rel = append(rel, name)
	}

	page, err := pageFile(dir)
	if err != nil {
		return nil, err
	}

	node := &model.Node{
		Route:   "/" + strings.Trim(route, "/"),
		Path:    dir,
		RelPath: filepath.ToSlash(filepath.Join(rel...)),
	}
	if src, err := os.ReadFile(page); err == nil {
		if h, err := readHeader(src); err == nil {
			node.Title = h.Title
		}
	}
	return node, nil
}

func matchSegment(dir, seg string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", model.ErrNodeNotFound
		}
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == seg || orderPrefix.ReplaceAllString(e.Name(), "") == seg {
			return e.Name(), nil
		}
	}
	return "", model.ErrNodeNotFound
}

// pageFile returns the first markdown file in dir.
func pageFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", model.ErrNodeNotFound
		}
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	var pages []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			pages = append(pages, e.Name())
		}
	}
	if len(pages) == 0 {
		return "", model.ErrNodeNotFound
	}
	sort.Strings(pages)
	return filepath.Join(dir, pages[0]), nil
}
