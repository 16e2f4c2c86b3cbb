package parser

import (
	"testing"

	"musique/internal/ast"
	"musique/internal/lexer"
	"musique/internal/muserr"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	n, err := Parse("t", src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return n
}

func TestLiteral(t *testing.T) {
	n := mustParse(t, "42")
	if len(n.Children) != 1 || n.Children[0].Type != ast.Literal || n.Children[0].Token.Text != "42" {
		t.Fatalf("got %+v", n)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	n := mustParse(t, "1 + 2 * 3")
	top := n.Children[0]
	if top.Type != ast.Binary || top.Token.Text != "+" {
		t.Fatalf("top-level op should be '+', got %+v", top)
	}
	right := top.Right()
	if right.Type != ast.Binary || right.Token.Text != "*" {
		t.Fatalf("right operand should be '*', got %+v", right)
	}
}

func TestLeftAssociative(t *testing.T) {
	// 1 - 2 - 3 should parse as (1 - 2) - 3
	n := mustParse(t, "1 - 2 - 3")
	top := n.Children[0]
	if top.Type != ast.Binary || top.Token.Text != "-" {
		t.Fatalf("got %+v", top)
	}
	left := top.Left()
	if left.Type != ast.Binary || left.Token.Text != "-" {
		t.Fatalf("left operand should be nested '-', got %+v", left)
	}
	if top.Right().Token.Text != "3" {
		t.Fatalf("got %+v", top.Right())
	}
}

func TestPowerHighestPrecedence(t *testing.T) {
	n := mustParse(t, "2 * 3 ** 2")
	top := n.Children[0]
	if top.Token.Text != "*" {
		t.Fatalf("got %+v", top)
	}
	if top.Right().Token.Text != "**" {
		t.Fatalf("got %+v", top.Right())
	}
}

func TestAssignment(t *testing.T) {
	n := mustParse(t, "x = 1")
	decl := n.Children[0]
	if decl.Type != ast.VarDecl {
		t.Fatalf("got %+v, want VarDecl", decl)
	}
	if decl.Children[0].Token.Text != "x" {
		t.Fatalf("got %+v", decl.Children[0])
	}
}

func TestUnaryMinus(t *testing.T) {
	n := mustParse(t, "-5")
	top := n.Children[0]
	if top.Type != ast.Unary || top.Token.Text != "-" {
		t.Fatalf("got %+v", top)
	}
}

func TestEmptyBlock(t *testing.T) {
	n := mustParse(t, "()")
	top := n.Children[0]
	if top.Type != ast.Block {
		t.Fatalf("got %+v, want Block", top)
	}
	if len(top.Body().Children) != 0 {
		t.Fatalf("expected empty sequence body, got %+v", top.Body())
	}
}

func TestParenGroupingCollapsesToBareExpr(t *testing.T) {
	n := mustParse(t, "(1 + 2)")
	top := n.Children[0]
	if top.Type != ast.Binary {
		t.Fatalf("a single parenthesized expr should collapse to itself, got %+v", top)
	}
}

func TestParenMultiStatementBlock(t *testing.T) {
	n := mustParse(t, "(1\n2)")
	top := n.Children[0]
	if top.Type != ast.Block {
		t.Fatalf("got %+v, want Block", top)
	}
	if len(top.Body().Children) != 2 {
		t.Fatalf("got %+v", top.Body())
	}
}

func TestLambdaZeroParams(t *testing.T) {
	n := mustParse(t, "(| 1)")
	top := n.Children[0]
	if top.Type != ast.Lambda {
		t.Fatalf("got %+v, want Lambda", top)
	}
	if len(top.Params()) != 0 {
		t.Fatalf("got %+v", top.Params())
	}
}

func TestLambdaOneParam(t *testing.T) {
	n := mustParse(t, "(i | i + 1)")
	top := n.Children[0]
	if top.Type != ast.Lambda {
		t.Fatalf("got %+v, want Lambda", top)
	}
	params := top.Params()
	if len(params) != 1 || params[0].Token.Text != "i" {
		t.Fatalf("got %+v", params)
	}
	if top.Body().Children[0].Token.Text != "+" {
		t.Fatalf("got %+v", top.Body())
	}
}

func TestLambdaMultipleParams(t *testing.T) {
	n := mustParse(t, "(a, b | a + b)")
	top := n.Children[0]
	if top.Type != ast.Lambda {
		t.Fatalf("got %+v, want Lambda", top)
	}
	if len(top.Params()) != 2 {
		t.Fatalf("got %+v", top.Params())
	}
}

func TestCallJuxtaposition(t *testing.T) {
	n := mustParse(t, "(i | i + 1) 3")
	top := n.Children[0]
	if top.Type != ast.Call {
		t.Fatalf("got %+v, want Call", top)
	}
	if top.CallHead().Type != ast.Lambda {
		t.Fatalf("got %+v", top.CallHead())
	}
}

func TestCallMultipleArgsSpread(t *testing.T) {
	n := mustParse(t, "f(a, b, c)")
	top := n.Children[0]
	if top.Type != ast.Call {
		t.Fatalf("got %+v, want Call", top)
	}
	args := top.CallArgs()
	if len(args) != 3 {
		t.Fatalf("got %d args, want 3: %+v", len(args), args)
	}
}

func TestIndexBindsTighterThanCall(t *testing.T) {
	n := mustParse(t, "xs[0](1)")
	top := n.Children[0]
	if top.Type != ast.Call {
		t.Fatalf("got %+v, want Call", top)
	}
	head := top.CallHead()
	if head.Type != ast.Binary || head.Token.Type != lexer.LeftBracket {
		t.Fatalf("got %+v, want index Binary as call head", head)
	}
}

func TestIfThenElse(t *testing.T) {
	n := mustParse(t, "if true then 1 else 2 end")
	top := n.Children[0]
	if top.Type != ast.If {
		t.Fatalf("got %+v, want If", top)
	}
	if top.Condition().Token.Text != "true" {
		t.Fatalf("got %+v", top.Condition())
	}
	if top.Then().Token.Text != "1" || top.Else().Token.Text != "2" {
		t.Fatalf("got then=%+v else=%+v", top.Then(), top.Else())
	}
}

func TestIfWithoutElse(t *testing.T) {
	n := mustParse(t, "if true then 1 end")
	top := n.Children[0]
	if top.Type != ast.If || top.Else() != nil {
		t.Fatalf("got %+v", top)
	}
}

func TestStructuralEqualityRoundTrip(t *testing.T) {
	a := mustParse(t, "1 + 2 * 3")
	b := mustParse(t, "1 + 2 * 3")
	if !ast.Equal(a, b) {
		t.Fatalf("two parses of identical source should be structurally equal")
	}
	c := mustParse(t, "1 + 2 * 4")
	if ast.Equal(a, c) {
		t.Fatalf("parses of different source should not be structurally equal")
	}
}

func TestSequenceOfStatements(t *testing.T) {
	n := mustParse(t, "1\n2, 3")
	if len(n.Children) != 3 {
		t.Fatalf("got %+v", n.Children)
	}
}

func TestLeadingSeparatorsSkipped(t *testing.T) {
	n := mustParse(t, "\n\n1")
	if len(n.Children) != 1 || n.Children[0].Token.Text != "1" {
		t.Fatalf("got %+v", n.Children)
	}
}

func TestUnclosedParenErrors(t *testing.T) {
	if _, err := Parse("t", "(1 + 2"); err == nil {
		t.Fatal("expected an error for an unclosed paren")
	}
}

func TestUndefinedOperatorErrors(t *testing.T) {
	if _, err := Parse("t", "1 ~~ 2"); err == nil {
		t.Fatal("expected a lexer or undefined-operator error")
	}
}

func TestClosingTokenWithoutOpening(t *testing.T) {
	if _, err := Parse("t", "1)"); err == nil {
		t.Fatal("expected an error for a stray closing paren")
	}
}

func TestCompoundAssignmentParsesAsBinary(t *testing.T) {
	n := mustParse(t, "x += 1")
	top := n.Children[0]
	if top.Type != ast.Binary || top.Token.Text != "+=" {
		t.Fatalf("got %+v", top)
	}
}

func TestMalformedLambdaParamReportsLiteralAsIdentifier(t *testing.T) {
	_, err := Parse("t", "(1 | body)")
	if err == nil {
		t.Fatal("expected an error for a non-Symbol lambda parameter")
	}
	e, ok := muserr.As(err)
	if !ok || e.Kind != muserr.LiteralAsIdentifier {
		t.Fatalf("got %v, want a LiteralAsIdentifier error", err)
	}
}
