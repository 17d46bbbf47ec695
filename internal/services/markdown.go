package services

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentTransformer converts user-authored markdown into sanitized
// publishable HTML, restricted to a fixed tag/attribute/scheme set.
type ContentTransformer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	logger *logrus.Logger
}

// NewContentTransformer creates a new content transformer
func NewContentTransformer(logger *logrus.Logger) *ContentTransformer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "strong", "em", "b", "i", "ul", "ol", "li", "code", "pre", "blockquote", "h1", "h2", "h3")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("class").Globally()
	policy.AllowURLSchemes("http", "https", "mailto")
	policy.RequireParseableURLs(true)

	return &ContentTransformer{
		md:     md,
		policy: policy,
		logger: logger,
	}
}

// Render converts markdown to sanitized HTML
func (t *ContentTransformer) Render(markdown string) string {
	var buf bytes.Buffer
	if err := t.md.Convert([]byte(markdown), &buf); err != nil {
		t.logger.Errorf("Markdown conversion failed: %v", err)
		return t.policy.Sanitize(markdown)
	}
	return t.policy.Sanitize(buf.String())
}
