package application

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/lokisoft/site/blog/domain"
)

// RenderResult contains the results of rendering a post body.
type RenderResult struct {
	HTML     string
	Headings []domain.TocHeading
	Blocks   []domain.ContentBlock
}

// MarkdownRenderer defines the interface for converting a markdown post body
// into sanitized HTML plus its heading outline and rich content blocks.
type MarkdownRenderer interface {
	Render(markdown []byte) (*RenderResult, error)
}

type GoldmarkRenderer struct {
	renderer goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewMarkdownRenderer builds the full pipeline: goldmark with GFM and math
// syntax, raw inline HTML passed through, then sanitization against the
// allow-list, then a single tree walk that fixes up heading ids, extracts
// the outline and classifies rich content blocks.
//
// Raw HTML is deliberately enabled at the goldmark stage (WithUnsafe); the
// sanitizer is the only gate, so author-written HTML and generated HTML go
// through the same allow-list.
func NewMarkdownRenderer() MarkdownRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			mathjax.MathJax,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)

	return &GoldmarkRenderer{
		renderer: renderer,
		policy:   newSanitizePolicy(),
	}
}

func (r *GoldmarkRenderer) Render(markdown []byte) (*RenderResult, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	if err := r.renderer.Convert(markdown, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	sanitized := r.policy.Sanitize(buf.String())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitized))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sanitized HTML: %w", err)
	}

	scrubImageSources(doc)
	headings := collectHeadings(doc)
	blocks := extractBlocks(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize HTML: %w", err)
	}

	return &RenderResult{
		HTML:     out,
		Headings: headings,
		Blocks:   blocks,
	}, nil
}

// collectHeadings walks h2-h6 in the sanitized tree and builds the table of
// contents. The tree is the single source of truth: headings that came
// through as raw HTML without an id get one here, with the same slug rule
// goldmark used, so in-page anchors always resolve.
func collectHeadings(doc *goquery.Document) []domain.TocHeading {
	ids := newHeadingIDs()
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			ids.Put([]byte(id))
		}
	})

	var headings []domain.TocHeading
	doc.Find("h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())

		id, ok := s.Attr("id")
		if !ok || id == "" {
			id = ids.generate(text)
			s.SetAttr("id", id)
		}

		name := goquery.NodeName(s)
		level := int(name[1] - '0')

		headings = append(headings, domain.TocHeading{
			ID:    id,
			Text:  text,
			Level: level,
		})
	})

	return headings
}

// scrubImageSources drops src attributes whose scheme is not http(s).
// The sanitizer's scheme list has to include mailto for links, so image
// sources get the stricter check here.
func scrubImageSources(doc *goquery.Document) {
	doc.Find("[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		lower := strings.ToLower(strings.TrimSpace(src))
		if idx := strings.Index(lower, ":"); idx >= 0 {
			scheme := lower[:idx]
			if scheme != "http" && scheme != "https" {
				s.RemoveAttr("src")
			}
		}
	})
}

// Slugify turns heading text into a stable anchor id: lowercase, strip
// everything outside [a-z0-9 -], then replace spaces with hyphens.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// headingIDs assigns unique heading ids within one document. It implements
// goldmark's parser.IDs so the rendered tree and the extracted outline use
// the identical slug rule.
type headingIDs struct {
	used map[string]bool
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: make(map[string]bool)}
}

func (ids *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(ids.generate(string(value)))
}

func (ids *headingIDs) Put(value []byte) {
	ids.used[string(value)] = true
}

func (ids *headingIDs) generate(text string) string {
	slug := Slugify(text)
	if slug == "" {
		slug = "heading"
	}

	if !ids.used[slug] {
		ids.used[slug] = true
		return slug
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		if !ids.used[candidate] {
			ids.used[candidate] = true
			return candidate
		}
	}
}
