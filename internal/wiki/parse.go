// Package wiki loads the scripting reference page and turns its function
// table into catalog records.
package wiki

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

// ErrTableNotFound is returned when the page has no function table under
// the main content container.
var ErrTableNotFound = errors.New("function table not found in reference page")

//go:embed queries/reference.scm
var querySource []byte

var (
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
)

var (
	signatureRe  = regexp.MustCompile(`(\w+)\s*\((.*?)\)`)
	returnTypeRe = regexp.MustCompile(`^(\w+)\s+`)
	optionalRe   = regexp.MustCompile(`\[\s*,\s*`)
)

func referenceQuery() (*sitter.Query, error) {
	queryOnce.Do(func() {
		q, err := sitter.NewQuery(querySource, html.GetLanguage())
		if err != nil {
			queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		query = q
	})
	return query, queryErr
}

// Parse extracts one record per table row that has at least three cells
// and a recognizable signature. Rows keep page order.
func Parse(ctx context.Context, page []byte) ([]*model.Function, error) {
	q, err := referenceQuery()
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(html.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, page)
	if err != nil {
		return nil, fmt.Errorf("parsing reference page: %w", err)
	}
	defer tree.Close()

	content := firstCapture(q, tree.RootNode(), page, "content")
	if content == nil {
		return nil, ErrTableNotFound
	}
	table := childElement(content, page, "table")
	if table == nil {
		return nil, ErrTableNotFound
	}

	// Rows may sit directly in the table or inside tbody.
	var out []*model.Function
	for _, row := range captures(q, table, page, "row") {
		cells := childElements(row, page, "td")
		if len(cells) < 3 {
			continue
		}
		if fn := parseRow(cells, page); fn != nil {
			out = append(out, fn)
		}
	}
	return out, nil
}

func parseRow(cells []*sitter.Node, page []byte) *model.Function {
	version := strings.TrimSpace(plainText(cells[0], page))
	lines := strings.Split(render(cells[1], page), "\n")

	signature := strings.ReplaceAll(lines[0], "`", "")
	m := signatureRe.FindStringSubmatch(signature)
	if m == nil {
		return nil
	}

	fn := &model.Function{
		Name:       m[1],
		Namespace:  model.NamespaceGlobal,
		Kind:       model.KindReference,
		Parameters: parseParams(m[2]),
		ReturnType: model.Unknown,
		Notes:      strings.TrimSpace(render(cells[2], page)),
		Deprecated: strings.Contains(strings.ToLower(version), "deprecated"),
	}
	if rt := returnTypeRe.FindStringSubmatch(signature); rt != nil && !strings.EqualFold(rt[1], "deprecated") {
		fn.ReturnType = model.Type(rt[1])
	}
	if len(lines) > 1 {
		fn.Description = strings.TrimSpace(strings.Trim(lines[1], "*_"))
	}
	if len(lines) > 2 {
		fn.Detailed = strings.TrimPrefix(strings.ReplaceAll(strings.Join(lines[2:], "\n"), "\n\n", "\n"), "\n")
	}
	return fn
}

// parseParams reads a reference-page parameter list. Brackets mark optional
// parameters; "a[, b]" is read as "a, [b]".
func parseParams(list string) []model.Parameter {
	list = optionalRe.ReplaceAllString(list, ", [")
	params := []model.Parameter{}
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		name := strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(p))
		if name == "" {
			continue
		}
		params = append(params, model.Parameter{
			Name:     name,
			Type:     model.Any,
			Optional: strings.Contains(p, "["),
		})
	}
	return params
}

func captures(q *sitter.Query, node *sitter.Node, src []byte, name string) []*sitter.Node {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, node)

	var out []*sitter.Node
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, src)
		for _, c := range match.Captures {
			if q.CaptureNameForId(c.Index) == name {
				out = append(out, c.Node)
			}
		}
	}
	return out
}

func firstCapture(q *sitter.Query, node *sitter.Node, src []byte, name string) *sitter.Node {
	if nodes := captures(q, node, src, name); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}
