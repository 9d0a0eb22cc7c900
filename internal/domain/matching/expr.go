package matching

import (
	"fmt"
	"path"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprEnv is the environment visible to matcher expressions.
type ExprEnv struct {
	Filename string `expr:"Filename"`
	Stem     string `expr:"Stem"`
	Ext      string `expr:"Ext"`
}

func newExprEnv(filename string) ExprEnv {
	ext := path.Ext(filename)
	return ExprEnv{
		Filename: filename,
		Stem:     strings.TrimSuffix(filename, ext),
		Ext:      ext,
	}
}

// ExprMatcher evaluates a boolean expr-lang expression against the filename,
// e.g. `Ext == ".zip" && Stem startsWith "cm-11-"`.
type ExprMatcher struct {
	program *vm.Program
	source  string
}

// NewExprMatcher compiles source. Expressions that do not type-check as
// booleans against ExprEnv are rejected here, never at match time.
func NewExprMatcher(source string) (*ExprMatcher, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyPattern
	}

	program, err := expr.Compile(source, expr.Env(ExprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", source, err)
	}

	return &ExprMatcher{program: program, source: source}, nil
}

// Matches implements Matcher. Runtime evaluation errors count as no match.
func (m *ExprMatcher) Matches(filename string) bool {
	if filename == "" {
		return false
	}

	out, err := expr.Run(m.program, newExprEnv(filename))
	if err != nil {
		return false
	}

	matched, ok := out.(bool)
	return ok && matched
}

func (m *ExprMatcher) String() string {
	return "expr:" + m.source
}
