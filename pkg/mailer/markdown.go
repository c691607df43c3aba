package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// converter is shared across all template sets; goldmark instances are
// safe for concurrent use.
var converter = goldmark.New(goldmark.WithExtensions(ButtonExtension()))

func markdownToHTML(src []byte) (string, error) {
	var out bytes.Buffer
	if err := converter.Convert(src, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// buttonMarker opens a call-to-action link: [!button|Label](url) renders
// as an anchor with the "btn" class, which mail layouts style as a button.
var buttonMarker = []byte("[!button|")

type buttonNode struct {
	ast.BaseInline
	label []byte
	url   []byte
}

var buttonKind = ast.NewNodeKind("MailButton")

func (n *buttonNode) Kind() ast.NodeKind { return buttonKind }

func (n *buttonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonMarker) {
		return nil
	}

	labelEnd := bytes.IndexByte(line, ']')
	if labelEnd < len(buttonMarker) {
		return nil
	}
	rest := line[labelEnd+1:]
	if len(rest) == 0 || rest[0] != '(' {
		return nil
	}
	urlEnd := bytes.IndexByte(rest, ')')
	if urlEnd < 0 {
		return nil
	}

	block.Advance(labelEnd + 1 + urlEnd + 1)
	return &buttonNode{
		label: line[len(buttonMarker):labelEnd],
		url:   rest[1:urlEnd],
	}
}

type buttonHTMLRenderer struct{}

func (r buttonHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(buttonKind, r.render)
}

func (buttonHTMLRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*buttonNode)
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(n.url))
	_, _ = w.WriteString(`" class="btn">`)
	_, _ = w.Write(util.EscapeHTML(n.label))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

type buttonExtension struct{}

func (buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(buttonParser{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(buttonHTMLRenderer{}, 50),
	))
}

// ButtonExtension returns the goldmark extender for button links.
func ButtonExtension() goldmark.Extender {
	return buttonExtension{}
}
