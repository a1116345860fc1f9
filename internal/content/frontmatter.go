package content

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"

	"emailpost/internal/model"
)

var md = goldmark.New(
	goldmark.WithExtensions(&frontmatter.Extender{}),
)

// readHeader extracts the front matter of a markdown document. Documents
// without front matter yield a zero Header.
func readHeader(source []byte) (model.Header, error) {
	var h model.Header
	ctx := parser.NewContext()
	md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data == nil {
		return h, nil
	}
	if err := data.Decode(&h); err != nil {
		return h, err
	}
	return h, nil
}
