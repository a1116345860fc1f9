package model

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseForm(t *testing.T, fields map[string]string, files map[string][]string) *multipart.Form {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, names := range files {
		for _, name := range names {
			part, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, _ = part.Write([]byte("content of " + name))
		}
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func TestSubmissionValue(t *testing.T) {
	s := NewSubmission(map[string][]string{
		"subject":       {"  Hello  "},
		"stripped-html": {"   "},
		"body-html":     {""},
		"stripped-text": {"plain"},
	}, nil)

	v, ok := s.Value("subject", "Subject")
	assert.True(t, ok)
	assert.Equal(t, "Hello", v)

	v, ok = s.Value("stripped-html", "body-html", "stripped-text", "body-plain")
	assert.True(t, ok)
	assert.Equal(t, "plain", v)

	_, ok = s.Value("missing")
	assert.False(t, ok)

	var nilSub *Submission
	_, ok = nilSub.Value("subject")
	assert.False(t, ok)
}

func TestSubmissionValuePriority(t *testing.T) {
	s := NewSubmission(map[string][]string{
		"Subject": {"Upper"},
		"subject": {"lower"},
	}, nil)

	v, _ := s.Value("subject", "Subject")
	assert.Equal(t, "lower", v)
}

func TestNewSubmissionUploads(t *testing.T) {
	form := parseForm(t, nil, map[string][]string{
		"attachments": {"a.txt", "b.txt"},
		"image":       {"c.png"},
	})

	s := NewSubmission(form.Value, form.File)
	require.Len(t, s.Uploads, 3)
	assert.True(t, s.HasFiles())

	assert.Equal(t, "attachments", s.Uploads[0].Field)
	assert.Equal(t, "a.txt", s.Uploads[0].Filename)
	assert.Equal(t, "b.txt", s.Uploads[1].Filename)
	assert.Equal(t, "image", s.Uploads[2].Field)

	for _, u := range s.Uploads {
		assert.True(t, s.IsUpload(u))
	}
}

func TestSubmissionIsUploadRejectsForeignParts(t *testing.T) {
	form := parseForm(t, nil, map[string][]string{"file": {"a.txt"}})
	other := parseForm(t, nil, map[string][]string{"file": {"a.txt"}})

	s := NewSubmission(form.Value, form.File)

	forged := Upload{Field: "file", Filename: "a.txt", File: other.File["file"][0]}
	assert.False(t, s.IsUpload(forged))
	assert.False(t, s.IsUpload(Upload{Filename: "/etc/passwd"}))
}
