package templates

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// inlineHTML keeps inline formatting tags in user-supplied titles and text and
// strips everything else. The result is safe to emit unescaped.
func inlineHTML(s string) template.HTML {
	inlinePolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "u", "br", "span")
		p.AllowAttrs("href").OnElements("a")
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireParseableURLs(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		inlinePolicy = p
	})
	return template.HTML(inlinePolicy.Sanitize(s))
}
