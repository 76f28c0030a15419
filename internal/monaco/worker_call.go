package monaco

import (
	"regexp"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
)

// workerCallPattern finds the start of a worker construction up to its
// opening parenthesis. The end of the call is found by matching parentheses.
var workerCallPattern = regexp.MustCompile(`\bnew\s+Worker\s*\(`)

const moduleTypeProperty = `type: "module"`

// WorkerRewriter adds module worker options to a single `new Worker(...)`
// call site. It returns the call site unchanged if it cannot handle it.
type WorkerRewriter interface {
	RewriteWorkerConstruction(callSite string) string
}

// ParsingWorkerRewriter parses the call site to find the argument list.
type ParsingWorkerRewriter struct{}

func (ParsingWorkerRewriter) RewriteWorkerConstruction(callSite string) string {
	program, err := parser.ParseFile(nil, "", callSite, 0)
	if err != nil || len(program.Body) == 0 {
		return callSite
	}

	statement, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return callSite
	}
	call, ok := statement.Expression.(*ast.NewExpression)
	if !ok {
		return callSite
	}
	if callee, ok := call.Callee.(*ast.Identifier); !ok || string(callee.Name) != "Worker" {
		return callSite
	}

	switch len(call.ArgumentList) {
	case 1:
		return splice(callSite, offset(call.RightParenthesis), ", { "+moduleTypeProperty+" }")
	case 2:
		options, ok := call.ArgumentList[1].(*ast.ObjectLiteral)
		if !ok {
			return callSite
		}
		if len(options.Value) == 0 {
			return splice(callSite, offset(options.RightBrace), " "+moduleTypeProperty+" ")
		}
		// Inserting right after the last property keeps a trailing comma valid.
		lastProperty := options.Value[len(options.Value)-1]
		return splice(callSite, offset(lastProperty.Idx1()), ", "+moduleTypeProperty)
	default:
		return callSite
	}
}

// offset converts a parser position (1-based) to a byte offset.
func offset(idx file.Idx) int {
	return int(idx) - 1
}

func splice(src string, at int, insert string) string {
	if at < 0 || at > len(src) {
		return src
	}
	return src[:at] + insert + src[at:]
}

// workerCalls returns the [start, end) ranges of the worker constructions in
// code, skipping those inside comments and literals. Constructions nested in
// the arguments of another one are part of the outer call site.
func workerCalls(code string) [][2]int {
	matches := workerCallPattern.FindAllStringIndex(code, -1)
	if len(matches) == 0 {
		return nil
	}

	opaque := scanOpaque(code)

	var calls [][2]int
	last := 0
	for _, match := range matches {
		start := match[0]
		if start < last || opaque.contains(start) {
			continue
		}

		end := opaque.closingParen(code, match[1]-1)
		if end < 0 {
			continue
		}

		calls = append(calls, [2]int{start, end})
		last = end
	}
	return calls
}

// rewriteWorkerConstructions applies rewriter to every worker construction
// that is code, not comment or string.
func rewriteWorkerConstructions(code string, rewriter WorkerRewriter) (string, bool) {
	calls := workerCalls(code)
	if len(calls) == 0 {
		return code, false
	}

	var sb strings.Builder
	sb.Grow(len(code) + len(calls)*len(moduleTypeProperty))

	changed := false
	last := 0
	for _, call := range calls {
		start, end := call[0], call[1]

		callSite := code[start:end]
		rewritten := rewriter.RewriteWorkerConstruction(callSite)
		if rewritten == callSite {
			continue
		}

		sb.WriteString(code[last:start])
		sb.WriteString(rewritten)
		last = end
		changed = true
	}
	if !changed {
		return code, false
	}
	sb.WriteString(code[last:])

	return sb.String(), true
}
