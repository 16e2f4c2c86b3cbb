package ast

import (
	"testing"

	"musique/internal/lexer"
	"musique/internal/srcrange"
)

func lit(text string, typ lexer.Type) *Node {
	return NewLiteral(lexer.Token{Type: typ, Text: text}, srcrange.Zero)
}

func TestEqualIgnoresRange(t *testing.T) {
	a := NewLiteral(lexer.Token{Type: lexer.Numeric, Text: "1"}, srcrange.Range{Filename: "a", Start: 0, Stop: 1})
	b := NewLiteral(lexer.Token{Type: lexer.Numeric, Text: "1"}, srcrange.Range{Filename: "b", Start: 40, Stop: 41})
	if !Equal(a, b) {
		t.Fatal("nodes differing only in Range should be equal")
	}
}

func TestEqualDiffersOnText(t *testing.T) {
	a := lit("1", lexer.Numeric)
	b := lit("2", lexer.Numeric)
	if Equal(a, b) {
		t.Fatal("nodes with different token text should not be equal")
	}
}

func TestEqualRecursesIntoChildren(t *testing.T) {
	left := lit("1", lexer.Numeric)
	right := lit("2", lexer.Numeric)
	a := NewBinary(lexer.Token{Type: lexer.Operator, Text: "+"}, left, right, srcrange.Zero)
	b := NewBinary(lexer.Token{Type: lexer.Operator, Text: "+"}, lit("1", lexer.Numeric), lit("2", lexer.Numeric), srcrange.Zero)
	if !Equal(a, b) {
		t.Fatal("structurally identical trees should be equal")
	}
	c := NewBinary(lexer.Token{Type: lexer.Operator, Text: "+"}, lit("1", lexer.Numeric), lit("3", lexer.Numeric), srcrange.Zero)
	if Equal(a, c) {
		t.Fatal("trees differing in a descendant should not be equal")
	}
}

func TestEqualNilHandling(t *testing.T) {
	if !Equal(nil, nil) {
		t.Fatal("two nils should be equal")
	}
	if Equal(nil, lit("1", lexer.Numeric)) {
		t.Fatal("nil should not equal a node")
	}
}

func TestLambdaParamsAndBody(t *testing.T) {
	p1 := lit("i", lexer.Symbol)
	body := lit("1", lexer.Numeric)
	l := NewLambda([]*Node{p1}, body, srcrange.Zero)
	if len(l.Params()) != 1 || l.Params()[0] != p1 {
		t.Fatalf("got %+v", l.Params())
	}
	if l.Body() != body {
		t.Fatalf("got %+v", l.Body())
	}
}

func TestIfWithAndWithoutElse(t *testing.T) {
	cond, then, els := lit("true", lexer.Keyword), lit("1", lexer.Numeric), lit("2", lexer.Numeric)
	withElse := NewIf(cond, then, els, srcrange.Zero)
	if withElse.Else() != els {
		t.Fatalf("got %+v", withElse.Else())
	}
	withoutElse := NewIf(cond, then, nil, srcrange.Zero)
	if withoutElse.Else() != nil {
		t.Fatalf("got %+v, want nil", withoutElse.Else())
	}
}

func TestCallHeadAndArgs(t *testing.T) {
	head := lit("f", lexer.Symbol)
	a1, a2 := lit("1", lexer.Numeric), lit("2", lexer.Numeric)
	call := NewCall(head, []*Node{a1, a2}, srcrange.Zero)
	if call.CallHead() != head {
		t.Fatalf("got %+v", call.CallHead())
	}
	args := call.CallArgs()
	if len(args) != 2 || args[0] != a1 || args[1] != a2 {
		t.Fatalf("got %+v", args)
	}
}
