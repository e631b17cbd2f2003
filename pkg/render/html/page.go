package html

import (
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/matzehuels/wikilist/pkg/layout"
)

// DefaultHead links the wiki's site styles so previews look like the wiki.
const DefaultHead = `<head>
    <meta charset="UTF-8">
    <link rel="stylesheet" href="https://arathia.net/w/load.php?lang=en&amp;modules=site.styles&amp;only=styles&amp;skin=citizen">
    <title>Arathia Wiki Table</title>
</head>`

// Page wraps table in a complete HTML document with the given head section.
func Page(table, head string) string {
	return "<!DOCTYPE html>\n<html>\n" + head + "\n<body>\n    " + table + "\n</body>\n</html>"
}

// PreviewOptions configures a [Previewer].
type PreviewOptions struct {
	// HeadFile is read for the head section. When empty or unreadable,
	// DefaultHead is used.
	HeadFile string

	// WikiURL turns [[links]] into anchors below <WikiURL>/wiki/. Links are
	// left as wikitext when empty.
	WikiURL string
}

// Previewer renders wikitext tables into preview pages. The head section
// is loaded on first use and kept until [Previewer.Reload].
//
// A Previewer is safe for concurrent use.
type Previewer struct {
	opts PreviewOptions

	mu     sync.Mutex
	head   string
	loaded bool
}

// NewPreviewer creates a Previewer.
func NewPreviewer(opts PreviewOptions) *Previewer {
	return &Previewer{opts: opts}
}

// Head returns the head section, loading it on first use.
func (p *Previewer) Head() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		p.head = loadHead(p.opts.HeadFile)
		p.loaded = true
	}
	return p.head
}

// Reload drops the loaded head section so the next call reads it again.
func (p *Previewer) Reload() {
	p.mu.Lock()
	p.loaded = false
	p.mu.Unlock()
}

// Render converts wikitext into a complete preview page.
func (p *Previewer) Render(wikitext string) string {
	return Page(p.Table(wikitext), p.Head())
}

// Table converts wikitext into the wrapped HTML table, expanding links and
// member separators when a wiki URL is configured.
func (p *Previewer) Table(wikitext string) string {
	table := Convert(wikitext)
	if p.opts.WikiURL == "" {
		return table
	}
	return ExpandLinks(table, p.opts.WikiURL)
}

func loadHead(path string) string {
	if path == "" {
		return DefaultHead
	}
	data, err := os.ReadFile(path)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return DefaultHead
	}
	return string(data)
}

var linkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]*))?\]\]`)

// ExpandLinks replaces [[Target|Label]] links with anchors below
// <wikiURL>/wiki/ and member separators with a middle dot.
func ExpandLinks(s, wikiURL string) string {
	base := strings.TrimRight(wikiURL, "/") + "/wiki/"
	s = linkRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		target, label := strings.TrimSpace(parts[1]), parts[2]
		if label == "" {
			label = strings.TrimPrefix(target, ":")
		}
		href := base + strings.ReplaceAll(strings.TrimPrefix(target, ":"), " ", "_")
		return `<a href="` + href + `">` + label + `</a>`
	})
	return strings.ReplaceAll(s, layout.MemberSeparator, " · ")
}
