package application

import (
	"github.com/microcosm-cc/bluemonday"
)

// The fixed set of widget attributes recognized on div elements. The HTML
// tokenizer lowercases attribute names, so the camelCase spellings authors
// sometimes use (dataInfoBox) arrive folded; both forms are allowed.
var widgetDataAttrs = []string{
	"data-info-box",
	"data-title",
	"data-toggle-box",
	"data-quiz-group",
	"data-quiz-question",
	"data-quiz-option",
	"data-correct",
	"data-explanation",
	"datainfobox",
	"datatitle",
	"datatogglebox",
	"dataquizgroup",
	"dataquizquestion",
	"dataquizoption",
	"datacorrect",
	"dataexplanation",
}

var classedElements = []string{
	"a", "code", "pre", "span", "p", "ul", "ol", "li", "div",
	"h1", "h2", "h3", "h4", "h5", "h6",
}

// mathElements are the presentational math-markup tags kept for authors who
// embed MathML directly.
var mathElements = []string{
	"math", "semantics", "mrow", "mi", "mo", "mn", "msup", "msub", "mfrac",
	"msqrt", "mroot", "mtable", "mtr", "mtd", "mtext", "mspace", "annotation",
	"mover", "munder", "munderover", "menclose", "mpadded", "mphantom",
}

// newSanitizePolicy builds the allow-list every rendered post body passes
// through. The list is a wire contract: anything not named here is stripped.
// No style attribute is permitted anywhere, on purpose, to rule out
// CSS-based injection.
func newSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"a", "abbr", "b", "blockquote", "br", "caption", "code", "dd",
		"del", "details", "div", "dl", "dt", "em", "figcaption", "figure",
		"h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "img", "input",
		"ins", "kbd", "li", "ol", "p", "pre", "q", "s", "samp", "section",
		"small", "span", "strike", "strong", "sub", "summary", "sup",
		"table", "tbody", "td", "tfoot", "th", "thead", "tr", "ul",
	)
	p.AllowElements(mathElements...)

	// id everywhere so anchors work; never style
	p.AllowAttrs("id").Globally()

	p.AllowAttrs("class", "classname").OnElements(classedElements...)
	p.AllowAttrs(widgetDataAttrs...).OnElements("div")
	p.AllowAttrs("align").OnElements("th", "td")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("xmlns", "display").OnElements("math")
	p.AllowAttrs("encoding").OnElements("annotation")

	// mailto is for links only; image sources are tightened to http(s)
	// after sanitization, see scrubImageSources.
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)

	return p
}
