package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const style = `body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;margin-bottom:2em}
th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}
td.num{text-align:right;font-variant-numeric:tabular-nums}`

func (p *Plan) writeHTML(w io.Writer) error {
	title := "Segmentation plan: " + filepath.Base(p.Source)

	body := element(atom.Body, nil,
		element(atom.H1, nil, text(title)),
		element(atom.P, nil, text(fmt.Sprintf("%d pages, %d blocks, %d gaps, %d cuts", p.TotalPages, len(p.Blocks), len(p.Gaps), len(p.Cuts)))),
	)
	if p.RunID != "" {
		body.AppendChild(element(atom.P, nil, text("Run "+p.RunID)))
	}

	segRows := make([][]string, len(p.Segments))
	for i, s := range p.Segments {
		end := "end of document"
		if s.EndY != nil {
			end = fmt.Sprintf("%.2f", *s.EndY)
		}
		segRows[i] = []string{
			fmt.Sprint(s.Number),
			fmt.Sprintf("%d-%d", s.StartPage+1, s.EndPage+1),
			fmt.Sprintf("%.2f", s.StartY),
			end,
			fmt.Sprintf("%d-%d", s.StartBlock, s.EndBlock),
			filepath.Base(s.Output),
		}
	}
	section(body, "Segments", []string{"#", "Pages", "Start Y", "End Y", "Blocks", "Output"}, segRows)

	cutRows := make([][]string, len(p.Cuts))
	for i, c := range p.Cuts {
		cutRows[i] = []string{fmt.Sprint(c.Page + 1), fmt.Sprintf("%.2f", c.Y), fmt.Sprint(c.BlockIndex)}
	}
	section(body, "Cuts", []string{"Page", "Y", "After block"}, cutRows)

	gapRows := make([][]string, len(p.Gaps))
	for i, g := range p.Gaps {
		gapRows[i] = []string{fmt.Sprintf("%.2f", g.Size), fmt.Sprint(g.Page + 1), fmt.Sprintf("%.2f", g.Y), fmt.Sprint(g.BlockIndexBefore)}
	}
	section(body, "Gaps", []string{"Size", "Page", "Y", "After block"}, gapRows)

	blockRows := make([][]string, len(p.Blocks))
	for i, b := range p.Blocks {
		blockRows[i] = []string{fmt.Sprint(i), fmt.Sprint(b.Page + 1), fmt.Sprintf("%.2f", b.StartY), fmt.Sprintf("%.2f", b.EndY), b.Content}
	}
	section(body, "Blocks", []string{"#", "Page", "Start Y", "End Y", "Content"}, blockRows)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, nil,
		element(atom.Head, nil,
			element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
			element(atom.Title, nil, text(title)),
			element(atom.Style, nil, text(style)),
		),
		body,
	))
	return html.Render(w, doc)
}

// section appends a heading and a table. Cells that parse as numbers are
// right aligned.
func section(body *html.Node, heading string, columns []string, rows [][]string) {
	body.AppendChild(element(atom.H2, nil, text(heading)))

	head := element(atom.Tr, nil)
	for _, c := range columns {
		head.AppendChild(element(atom.Th, nil, text(c)))
	}
	tbody := element(atom.Tbody, nil)
	for _, row := range rows {
		tr := element(atom.Tr, nil)
		for _, cell := range row {
			var attrs []html.Attribute
			if isNumber(cell) {
				attrs = []html.Attribute{{Key: "class", Val: "num"}}
			}
			tr.AppendChild(element(atom.Td, attrs, text(cell)))
		}
		tbody.AppendChild(tr)
	}
	body.AppendChild(element(atom.Table, []html.Attribute{{Key: "id", Val: strings.ToLower(heading)}},
		element(atom.Thead, nil, head),
		tbody,
	))
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
