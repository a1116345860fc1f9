package model

import (
	"errors"
	"time"
)

// ErrNodeNotFound is returned when a route does not resolve to a content node.
var ErrNodeNotFound = errors.New("content node not found")

// Node is an existing section of the content tree, such as the blog listing page.
type Node struct {
	Route   string `json:"route"`
	Path    string `json:"path"`     // absolute directory
	RelPath string `json:"rel_path"` // directory relative to the pages root
	Title   string `json:"title"`
}

// Header is the front matter written above an entry's body.
type Header struct {
	Title     string `yaml:"title" json:"title"`
	Date      string `yaml:"date" json:"date"`
	Published bool   `yaml:"published" json:"published"`
}

// Entry is a content entry created from an inbound email. It lives in its own
// folder below the parent node: <parent>/<YYYYMMDDHHMMSS>-<slug>/<template>.md
type Entry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Template    string    `json:"template"`
	Name        string    `json:"name"`
	Extension   string    `json:"extension"`
	Folder      string    `json:"folder"`
	Route       string    `json:"route"`
	Path        string    `json:"path"`
	Key         string    `json:"key"` // Path relative to the pages root
	Parent      *Node     `json:"-"`
	Content     string    `json:"-"`
	Header      Header    `json:"header"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the listing view of an entry, as served from the index cache.
type Summary struct {
	Folder      string   `json:"folder"`
	Route       string   `json:"route"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Published   bool     `json:"published"`
	Attachments []string `json:"attachments"`
}
