package model

import (
	"io"
	"mime/multipart"
	"sort"
	"strings"
)

// Upload is one file part of an inbound request.
type Upload struct {
	Field    string
	Filename string
	Size     int64
	File     *multipart.FileHeader
}

// Open returns a reader over the uploaded bytes.
func (u Upload) Open() (io.ReadCloser, error) {
	return u.File.Open()
}

// Submission is the already-parsed body of a webhook request: decoded form
// fields plus the file parts that the transport layer itself received.
type Submission struct {
	Fields  map[string][]string
	Uploads []Upload

	received map[*multipart.FileHeader]struct{}
}

// NewSubmission builds a Submission from form values and multipart file
// headers. Several files under one field name become several uploads, in the
// order they were sent. Fields are visited in sorted order.
func NewSubmission(values map[string][]string, files map[string][]*multipart.FileHeader) *Submission {
	s := &Submission{
		Fields:   make(map[string][]string, len(values)),
		received: make(map[*multipart.FileHeader]struct{}),
	}
	for k, v := range values {
		s.Fields[k] = v
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, fh := range files[name] {
			if fh == nil {
				continue
			}
			s.received[fh] = struct{}{}
			s.Uploads = append(s.Uploads, Upload{
				Field:    name,
				Filename: fh.Filename,
				Size:     fh.Size,
				File:     fh,
			})
		}
	}
	return s
}

// Value returns the first of keys whose trimmed value is not empty.
func (s *Submission) Value(keys ...string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, k := range keys {
		vals, ok := s.Fields[k]
		if !ok || len(vals) == 0 {
			continue
		}
		if v := strings.TrimSpace(vals[0]); v != "" {
			return v, true
		}
	}
	return "", false
}

// HasFiles reports whether any upload is attached.
func (s *Submission) HasFiles() bool {
	return s != nil && len(s.Uploads) > 0
}

// IsUpload reports whether u was received as a file part of this submission.
// Uploads assembled from anything else, such as a form value naming a path on
// disk, are rejected.
func (s *Submission) IsUpload(u Upload) bool {
	if s == nil || u.File == nil {
		return false
	}
	_, ok := s.received[u.File]
	return ok
}
