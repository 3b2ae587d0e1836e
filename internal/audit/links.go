package audit

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// linkEngine parses article bodies for AST inspection. GFM and Linkify stay
// enabled so table cells and bare URLs contribute links the same way the
// renderer sees them, and auto heading IDs supply the anchor set fragment
// links resolve against.
var linkEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// checkLinks walks the document AST collecting link and image destinations.
// Empty destinations are errors. Fragment-only destinations must resolve to a
// heading anchor in the same document, otherwise they surface as warnings.
func (s *Service) checkLinks(ctx context.Context, run *runState) error {
	root := linkEngine.Parser().Parse(text.NewReader(run.body))
	anchors := collectAnchors(root)
	return ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := node.(type) {
		case *ast.Link:
			run.links++
			inspectDestination(run, string(typed.Destination), nodeText(typed, run.body), anchors, "link")
		case *ast.Image:
			inspectDestination(run, string(typed.Destination), nodeText(typed, run.body), anchors, "image")
		case *ast.AutoLink:
			run.links++
			if len(typed.URL(run.body)) == 0 {
				run.report(interfaces.SeverityError, 0, "autolink has an empty destination")
			}
		}
		return ast.WalkContinue, nil
	})
}

func inspectDestination(run *runState, dest, label string, anchors map[string]bool, kind string) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		if label == "" {
			run.report(interfaces.SeverityError, 0, "%s has an empty destination", kind)
			return
		}
		run.report(interfaces.SeverityError, 0, "%s %q has an empty destination", kind, label)
		return
	}
	if strings.HasPrefix(dest, "#") {
		anchor := strings.TrimPrefix(dest, "#")
		if anchor == "" || !anchors[anchor] {
			run.report(interfaces.SeverityWarning, 0, "%s %q points at missing anchor %q", kind, label, dest)
		}
	}
}

// collectAnchors gathers the auto-generated heading IDs fragment links can
// target.
func collectAnchors(root ast.Node) map[string]bool {
	anchors := map[string]bool{}
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := node.(*ast.Heading); ok {
			if id, found := heading.AttributeString("id"); found {
				if raw, ok := id.([]byte); ok {
					anchors[string(raw)] = true
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return anchors
}

// nodeText flattens the text content of an inline node for finding messages.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if txt, ok := n.(*ast.Text); ok {
			sb.Write(txt.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
