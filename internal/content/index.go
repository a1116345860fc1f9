package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"emailpost/internal/cache"
	"emailpost/internal/model"
)

// IndexNamespace is the cache namespace holding entry listings.
const IndexNamespace = "index"

// Index lists the entries below a node. Listings are cached until the
// index namespace is cleared.
type Index struct {
	cache *cache.Cache[string, any]
	page  string
	log   *slog.Logger
}

// NewIndex creates an Index. page is the entry markdown file name
// (<template>.md); every other file in an entry folder is an attachment.
func NewIndex(pool *cache.Pool, page string, log *slog.Logger) *Index {
	if log == nil {
		log = slog.Default()
	}
	return &Index{cache: pool.Namespace(IndexNamespace), page: page, log: log}
}

// List returns the child entries of node, newest first.
func (i *Index) List(ctx context.Context, node *model.Node) ([]model.Summary, error) {
	if v, ok := i.cache.Get(node.Path); ok {
		if items, ok := v.([]model.Summary); ok {
			return items, nil
		}
	}

	// A save that clears the namespace during the scan invalidates this result.
	gen := i.cache.Generation()
	items, err := i.scan(ctx, node)
	if err != nil {
		return nil, err
	}
	i.cache.SetIfGeneration(gen, node.Path, items)
	return items, nil
}

func (i *Index) scan(ctx context.Context, node *model.Node) ([]model.Summary, error) {
	dirs, err := os.ReadDir(node.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", node.Path, err)
	}

	items := make([]model.Summary, 0, len(dirs))
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !d.IsDir() {
			continue
		}
		item, ok, err := i.summarize(node, d.Name())
		if err != nil {
			i.log.WarnContext(ctx, "[Emailpost] Skipped unreadable entry",
				"folder", d.Name(), "error", err.Error())
			continue
		}
		if ok {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Date != items[b].Date {
			return items[a].Date > items[b].Date
		}
		return items[a].Folder > items[b].Folder
	})
	return items, nil
}

// summarize reads the entry page of folder. Folders without the page are
// not entries and report false.
func (i *Index) summarize(node *model.Node, folder string) (model.Summary, bool, error) {
	dir := filepath.Join(node.Path, folder)
	files, err := os.ReadDir(dir)
	if err != nil {
		return model.Summary{}, false, fmt.Errorf("read %s: %w", dir, err)
	}

	item := model.Summary{
		Folder:      folder,
		Route:       strings.TrimSuffix(node.Route, "/") + "/" + orderPrefix.ReplaceAllString(folder, ""),
		Attachments: []string{},
	}
	found := false
	for _, f := range files {
		if f.IsDir() || f.Name() == i.page+".tmp" {
			continue
		}
		if f.Name() != i.page {
			item.Attachments = append(item.Attachments, f.Name())
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return model.Summary{}, false, fmt.Errorf("read %s: %w", f.Name(), err)
		}
		h, err := readHeader(src)
		if err != nil {
			return model.Summary{}, false, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
		item.Title = h.Title
		item.Date = h.Date
		item.Published = h.Published
		found = true
	}
	return item, found, nil
}
