package pipeline

import (
	"context"
	"fmt"
	"time"

	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/layout"
	"github.com/matzehuels/wikilist/pkg/observability"
	"github.com/matzehuels/wikilist/pkg/render/diagram"
	"github.com/matzehuels/wikilist/pkg/render/html"
	"github.com/matzehuels/wikilist/pkg/render/wikitext"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// Render generates output artifacts in the requested formats. Wikitext is
// always rendered because the HTML preview is derived from it.
func Render(ctx context.Context, l *layout.Layout, t *tree.Tree, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	style, _ := wikitext.ParseRowStyle(opts.RowStyle)

	artifacts := make(map[string][]byte, len(opts.Formats))
	text, err := renderFormat(ctx, FormatWikitext, func() ([]byte, error) {
		return []byte(wikitext.Render(l, wikitext.Options{RowStyle: style})), nil
	})
	if err != nil {
		return nil, err
	}
	artifacts[FormatWikitext] = text

	for _, format := range opts.Formats {
		if format == FormatWikitext {
			continue
		}
		var fn func() ([]byte, error)
		switch format {
		case FormatHTML:
			fn = func() ([]byte, error) {
				p := html.NewPreviewer(html.PreviewOptions{HeadFile: opts.HeadFile, WikiURL: opts.WikiURL})
				return []byte(p.Render(string(text))), nil
			}
		case FormatJSON:
			fn = func() ([]byte, error) { return wlio.Encode(t) }
		case FormatDOT:
			fn = func() ([]byte, error) {
				return []byte(diagram.ToDOT(t, diagram.Options{Members: opts.Members})), nil
			}
		case FormatSVG:
			fn = func() ([]byte, error) {
				return diagram.RenderSVG(ctx, diagram.ToDOT(t, diagram.Options{Members: opts.Members}))
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		data, err := renderFormat(ctx, format, fn)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, fn func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := fn()
	if err != nil {
		err = fmt.Errorf("render %s: %w", format, err)
	}
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}
