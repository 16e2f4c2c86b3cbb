// Package parser turns a lexer.Token stream into an ast.Node tree, per
// spec.md §4.2. The grammar is grounded on original_source/musique/parser/
// parser.cc: postfix indexing binds tighter than call application (parseIndex
// is nested inside parseFunctionCall), a bare Symbol immediately followed by
// `=` short-circuits into a dedicated assignment production rather than going
// through the infix climb, and parenthesized-group disambiguation between an
// empty Block, a Lambda, and a plain grouped expression follows the
// lookahead-with-backtracking algorithm in that file's (more complete,
// disabled-in-the-live-build) parse_atomic_expression.
package parser

import (
	"musique/internal/ast"
	"musique/internal/lexer"
	"musique/internal/muserr"
	"musique/internal/srcrange"
)

// precedence is the binary operator table from parser.cc's precedense(),
// verbatim: `[]` postfix indexing is excluded since it is its own production,
// not a binary infix operator.
var precedence = map[string]int{
	":=": 0,
	"=":  10,
	"or": 100, "and": 150,
	"<": 200, ">": 200, "<=": 200, ">=": 200, "==": 200, "!=": 200,
	"+": 300, "-": 300,
	"*": 400, "/": 400, "%": 400, "&": 400,
	"**": 500,
}

// isCompoundAssign reports whether op is a compound-assignment operator
// (`+=`, `*=`, ...): anything ending in `=` that isn't a comparison already
// named in precedence. spec.md's note that a missing-LHS compound assignment
// must raise Missing-Variable, same as plain `=`, implies it shares `=`'s
// binding power; the original parser.cc predates this feature so there is no
// table entry to ground it on directly.
func isCompoundAssign(op string) bool {
	if len(op) < 2 || op[len(op)-1] != '=' {
		return false
	}
	switch op {
	case "==", "!=", "<=", ">=", "=":
		return false
	}
	return true
}

func precedenceOf(op string) (int, bool) {
	if p, ok := precedence[op]; ok {
		return p, true
	}
	if isCompoundAssign(op) {
		return precedence["="], true
	}
	return 0, false
}

// Parser holds a fully-scanned token slice and a cursor into it, matching
// parser.cc's approach of lexing the whole source up front rather than
// streaming.
type Parser struct {
	filename string
	source   string
	tokens   []lexer.Token
	pos      int
}

// Parse lexes and parses a complete source text into a top-level Sequence
// node.
func Parse(filename, source string) (*ast.Node, error) {
	toks, err := lexer.All(filename, source)
	if err != nil {
		return nil, err
	}
	p := &Parser{filename: filename, source: source, tokens: toks}
	seq, err := p.parseSequence(nil)
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		tok := p.peek()
		if tok.Type == lexer.RightParen || tok.Type == lexer.RightBracket {
			return nil, muserr.At(p.rangeAt(p.pos), muserr.ClosingTokenWithoutOpening,
				"%s has no matching opening token", tok.Type)
		}
		return nil, muserr.At(p.rangeAt(p.pos), muserr.UnexpectedToken,
			"unexpected %s after a complete program", tok.Type)
	}
	return seq, nil
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) atEOF() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) consume() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) rangeAt(i int) srcrange.Range {
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	if i < 0 {
		return srcrange.Range{Filename: p.filename}
	}
	return p.tokens[i].Range(p.filename)
}

func (p *Parser) tokenRange(tok lexer.Token) srcrange.Range {
	return tok.Range(p.filename)
}

// isSeparator reports whether tok is a Comma or Newline, the two tokens that
// separate expressions inside a Sequence.
func isSeparator(tok lexer.Token) bool {
	return tok.Type == lexer.Comma || tok.Type == lexer.Newline
}

// stopFn decides when a sequence being parsed inside a keyword-delimited
// construct (`if ... then ... else ... end`) should stop without consuming
// the delimiting keyword.
type stopFn func(lexer.Token) bool

func isKeyword(tok lexer.Token, text string) bool {
	return tok.Type == lexer.Keyword && tok.Text == text
}

// parseSequence parses zero or more comma/newline-separated expressions,
// skipping leading separators (matching parse_many's "consume random
// separators laying before sequence" comment, added so a source consisting
// only of separators parses as an empty sequence rather than failing).
func (p *Parser) parseSequence(stop stopFn) (*ast.Node, error) {
	start := p.pos
	for isSeparator(p.peek()) {
		p.consume()
	}
	if p.atEOF() || (stop != nil && stop(p.peek())) {
		return ast.NewSequence(nil, p.rangeAt(start)), nil
	}

	var exprs []*ast.Node
	for {
		if stop != nil && stop(p.peek()) {
			break
		}
		expr, err := p.parseExpression(stop)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if !isSeparator(p.peek()) {
			break
		}
		for isSeparator(p.peek()) {
			p.consume()
		}
	}

	r := p.rangeAt(start)
	if len(exprs) > 0 {
		r = r.Union(exprs[len(exprs)-1].Range)
	}
	return ast.NewSequence(exprs, r), nil
}

// parseExpression is parse_expression: a bare Symbol immediately followed by
// `=` is a variable declaration, never an infix expression whose left
// operand happens to be that symbol.
func (p *Parser) parseExpression(stop stopFn) (*ast.Node, error) {
	if p.peek().Type == lexer.Symbol && p.peekAt(1).Type == lexer.Operator && p.peekAt(1).Text == "=" {
		return p.parseAssignment()
	}
	return p.parseInfix(stop)
}

// parseAssignment is parse_assigment: `name = expr`.
func (p *Parser) parseAssignment() (*ast.Node, error) {
	nameTok := p.consume()
	name := ast.NewLiteral(nameTok, p.tokenRange(nameTok))
	eq := p.consume() // the `=`
	value, err := p.parseExpression(nil)
	if err != nil {
		return nil, err
	}
	r := p.tokenRange(nameTok).Union(value.Range)
	_ = eq
	return ast.NewVarDecl(name, value, r), nil
}

// parseInfix implements precedence-climbing over the table above, grounded
// on parser.cc's parse_rhs_of_infix (that function manually rebalances a
// right-leaning accumulator by comparing precedences; a minPrec recursive
// climb produces the identical left-associative tree more directly).
func (p *Parser) parseInfix(stop stopFn) (*ast.Node, error) {
	return p.parseInfixAt(0, stop)
}

func (p *Parser) parseInfixAt(minPrec int, stop stopFn) (*ast.Node, error) {
	left, err := p.parseArithmeticPrefix(stop)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if !tok.IsOperatorLike() {
			break
		}
		if stop != nil && stop(tok) {
			break
		}
		prec, ok := precedenceOf(tok.Text)
		if !ok {
			return nil, muserr.At(p.tokenRange(tok), muserr.UndefinedOperator,
				"%q has no registered precedence", tok.Text)
		}
		if prec < minPrec {
			break
		}
		p.consume()
		right, err := p.parseInfixAt(prec+1, stop)
		if err != nil {
			return nil, err
		}
		r := left.Range.Union(right.Range)
		if tok.Text == ":=" {
			left = ast.NewVarDecl(left, right, r)
		} else {
			left = ast.NewBinary(tok, left, right, r)
		}
	}
	return left, nil
}

// parseArithmeticPrefix handles an optional leading unary `+`/`-`, per
// parser.cc's parse_arithmetic_prefix (there marked unimplemented, but
// confirming a dedicated Unary AST node is needed).
func (p *Parser) parseArithmeticPrefix(stop stopFn) (*ast.Node, error) {
	tok := p.peek()
	if tok.Type == lexer.Operator && (tok.Text == "-" || tok.Text == "+") {
		p.consume()
		operand, err := p.parseArithmeticPrefix(stop)
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(tok, operand, p.tokenRange(tok).Union(operand.Range)), nil
	}
	return p.parseFunctionCall(stop)
}

// parseFunctionCall is parse_function_call, extended with juxtaposition
// calls (`head a b c`, each adjacent atom its own argument): the original's
// live implementation only ever recognized the paren-spread form
// (`expect(Token::Type::Bra)`); juxtaposition has no surviving grounding in
// original_source/ since that function never got past its TODO stage, so it
// follows spec.md's call-application wording instead. A `(...)` immediately
// following the callee always spreads as call arguments; any other run of
// adjacent atom-starting tokens is collected as one juxtaposition call.
func (p *Parser) parseFunctionCall(stop stopFn) (*ast.Node, error) {
	result, err := p.parseIndex(stop)
	if err != nil {
		return nil, err
	}

	for {
		if p.peek().Type == lexer.LeftParen {
			open := p.consume()
			args, err := p.parseCallArgs(open)
			if err != nil {
				return nil, err
			}
			closeTok := p.consume() // RightParen, checked by parseCallArgs
			r := result.Range.Union(p.tokenRange(closeTok))
			result = ast.NewCall(result, args, r)
			continue
		}

		if p.startsJuxtaposedArg(stop) {
			var args []*ast.Node
			for p.startsJuxtaposedArg(stop) {
				arg, err := p.parseIndex(stop)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			r := result.Range.Union(args[len(args)-1].Range)
			result = ast.NewCall(result, args, r)
			continue
		}

		break
	}
	return result, nil
}

// startsJuxtaposedArg reports whether the upcoming token can begin a bare
// juxtaposed call argument: an atom (Numeric, Symbol, Chord, a literal
// keyword, `if`, `for`, `while`, or a parenthesized group), and not a stop
// token for the
// enclosing construct.
func (p *Parser) startsJuxtaposedArg(stop stopFn) bool {
	tok := p.peek()
	if stop != nil && stop(tok) {
		return false
	}
	switch tok.Type {
	case lexer.Numeric, lexer.Symbol, lexer.Chord, lexer.LeftParen:
		return true
	case lexer.Keyword:
		return literalKeywords[tok.Text] || tok.Text == "if" || tok.Text == "for" || tok.Text == "while"
	}
	return false
}

// parseCallArgs parses the comma/newline separated argument list inside a
// call's parentheses, per spec.md §4.2's "a following (...) is a call whose
// arguments are the inner Sequence's children" (the original's equivalent
// dead-ends through an always-false `Sequence` type check left over from an
// earlier design; the spec's wording is simpler and is what callers like
// `map f xs` and `f(a, b)` both need).
func (p *Parser) parseCallArgs(open lexer.Token) ([]*ast.Node, error) {
	stop := func(tok lexer.Token) bool { return tok.Type == lexer.RightParen }
	seq, err := p.parseSequence(stop)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.RightParen {
		return nil, muserr.At(p.tokenRange(open), muserr.UnexpectedEmptySource,
			"argument list opened here was never closed")
	}
	return seq.Children, nil
}

// parseIndex is parse_index: an atom followed by zero or more bracketed
// index expressions. The Binary node's Token is the `[` itself, so the
// evaluator can dispatch indexing without fabricating an operator lexeme.
func (p *Parser) parseIndex(stop stopFn) (*ast.Node, error) {
	result, err := p.parseAtomic(stop)
	if err != nil {
		return nil, err
	}

	for p.peek().Type == lexer.LeftBracket {
		open := p.consume()
		innerStop := func(tok lexer.Token) bool { return tok.Type == lexer.RightBracket }
		inner, err := p.parseSequence(innerStop)
		if err != nil {
			return nil, err
		}
		if p.peek().Type != lexer.RightBracket {
			return nil, muserr.At(p.tokenRange(open), muserr.UnexpectedEmptySource,
				"index expression opened here was never closed")
		}
		closeTok := p.consume()
		index := collapseSequence(inner)
		r := result.Range.Union(p.tokenRange(closeTok))
		result = ast.NewBinary(open, result, index, r)
	}
	return result, nil
}

// collapseSequence unwraps a single-element Sequence to its bare element,
// matching parse_sequence_inside's "size == 1 -> return that argument"
// rule, and otherwise wraps multiple elements in a Block so the grouped
// form still evaluates as one expression.
func collapseSequence(seq *ast.Node) *ast.Node {
	if len(seq.Children) == 1 {
		return seq.Children[0]
	}
	return ast.NewBlock(seq, seq.Range)
}

var literalKeywords = map[string]bool{"true": true, "false": true, "nil": true}

// parseAtomic is parse_atomic, filled out with the block/lambda/if
// productions that live in parser.cc's disabled parse_atomic_expression.
func (p *Parser) parseAtomic(stop stopFn) (*ast.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.Numeric, lexer.Symbol, lexer.Chord:
		p.consume()
		return ast.NewLiteral(tok, p.tokenRange(tok)), nil

	case lexer.Keyword:
		if literalKeywords[tok.Text] {
			p.consume()
			return ast.NewLiteral(tok, p.tokenRange(tok)), nil
		}
		if tok.Text == "if" {
			return p.parseIf()
		}
		if tok.Text == "for" || tok.Text == "while" {
			p.consume()
			return ast.NewLiteral(tok, p.tokenRange(tok)), nil
		}
		return nil, muserr.At(p.tokenRange(tok), muserr.UnexpectedKeyword,
			"%q cannot start an expression", tok.Text)

	case lexer.LeftParen:
		return p.parseParenGroup()

	case lexer.EOF:
		return nil, muserr.At(p.rangeAt(p.pos), muserr.UnexpectedEmptySource,
			"expected an expression but the source ended")

	default:
		return nil, muserr.At(p.tokenRange(tok), muserr.UnexpectedToken,
			"%s cannot start an expression", tok.Type)
	}
}

// parseParenGroup handles a `(`-introduced construct: an empty Block, a
// Lambda (disambiguated by scanning for a Bar before the matching `)`, with
// backtracking if the leading symbol-comma run turns out not to end in one),
// or a parenthesized Sequence collapsed per collapseSequence.
func (p *Parser) parseParenGroup() (*ast.Node, error) {
	open := p.consume()

	if p.peek().Type == lexer.RightParen {
		closeTok := p.consume()
		r := p.tokenRange(open).Union(p.tokenRange(closeTok))
		return ast.NewBlock(ast.NewSequence(nil, r), r), nil
	}

	if p.peek().Type == lexer.Bar {
		p.consume()
		return p.finishParenGroup(open, true, nil)
	}

	if params, ok, err := p.tryParseLambdaParams(); err != nil {
		return nil, err
	} else if ok {
		return p.finishParenGroup(open, true, params)
	}

	return p.finishParenGroup(open, false, nil)
}

// tryParseLambdaParams attempts to parse a comma-separated run of bare
// Symbol tokens ending in a Bar. On any mismatch where the run was never
// headed for a Bar to begin with, it rewinds to where it started and
// reports failure, matching parser.cc's `token_id = start` backtrack in the
// disabled parse_atomic_expression. But when looksLikeLambdaParamList
// confirms a Bar does terminate the run, a non-Symbol entry is a malformed
// parameter list (spec.md §7's assignment/lambda-parameter LiteralAsIdentifier
// case), not a plain parenthesized expression, and is reported as such
// instead of surfacing later as a misleading unclosed-block error.
func (p *Parser) tryParseLambdaParams() ([]*ast.Node, bool, error) {
	if !p.looksLikeLambdaParamList() {
		return nil, false, nil
	}
	var params []*ast.Node
	for {
		tok := p.peek()
		if tok.Type != lexer.Symbol {
			return nil, false, muserr.At(p.tokenRange(tok), muserr.LiteralAsIdentifier,
				"only a bare name can appear in a lambda parameter list")
		}
		p.consume()
		params = append(params, ast.NewLiteral(tok, p.tokenRange(tok)))
		if p.peek().Type == lexer.Comma {
			p.consume()
			continue
		}
		break
	}
	p.consume() // the Bar, guaranteed present by looksLikeLambdaParamList
	return params, true, nil
}

// looksLikeLambdaParamList scans ahead from the current position, without
// consuming, for a comma-separated token run terminated by a Bar before any
// token that couldn't appear in a parameter list. This lets a malformed
// list (a non-Symbol parameter) still be recognized as an attempted lambda
// rather than silently falling back to sequence parsing — `|` has no other
// use in musique, so a Bar reachable this way always means a lambda was
// intended.
func (p *Parser) looksLikeLambdaParamList() bool {
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.Bar:
			return true
		case lexer.Comma, lexer.Symbol, lexer.Numeric:
			continue
		default:
			return false
		}
	}
	return false
}

func (p *Parser) finishParenGroup(open lexer.Token, isLambda bool, params []*ast.Node) (*ast.Node, error) {
	stop := func(tok lexer.Token) bool { return tok.Type == lexer.RightParen }
	body, err := p.parseSequence(stop)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.RightParen {
		return nil, muserr.At(p.tokenRange(open), muserr.UnexpectedEmptySource,
			"block opened here was never closed")
	}
	closeTok := p.consume()
	r := p.tokenRange(open).Union(p.tokenRange(closeTok))

	if isLambda {
		return ast.NewLambda(params, body, r), nil
	}
	return wrapGroup(body, r), nil
}

// wrapGroup implements parse_sequence_inside's non-lambda collapse: a
// single expression in parens is just that expression; more than one is a
// Block.
func wrapGroup(body *ast.Node, r srcrange.Range) *ast.Node {
	if len(body.Children) == 1 {
		return body.Children[0]
	}
	return ast.NewBlock(body, r)
}

// parseIf is the `if cond then body [else body] end` production, keyword-
// driven since it has no analogue left in the original's surviving live
// code (it predates this feature entirely).
func (p *Parser) parseIf() (*ast.Node, error) {
	ifTok := p.consume()
	cond, err := p.parseExpression(isThenOrElseOrEnd)
	if err != nil {
		return nil, err
	}
	if !isKeyword(p.peek(), "then") {
		return nil, muserr.At(p.tokenRange(p.peek()), muserr.UnexpectedToken,
			"expected %q after the condition", "then")
	}
	p.consume()

	then, err := p.parseSequence(isElseOrEnd)
	if err != nil {
		return nil, err
	}
	then = wrapGroup(then, then.Range)

	var els *ast.Node
	if isKeyword(p.peek(), "else") {
		p.consume()
		elseSeq, err := p.parseSequence(isEnd)
		if err != nil {
			return nil, err
		}
		els = wrapGroup(elseSeq, elseSeq.Range)
	}

	if !isKeyword(p.peek(), "end") {
		return nil, muserr.At(p.tokenRange(p.peek()), muserr.UnexpectedEmptySource,
			"if started here was never closed with %q", "end")
	}
	endTok := p.consume()

	r := p.tokenRange(ifTok).Union(p.tokenRange(endTok))
	return ast.NewIf(cond, then, els, r), nil
}

func isThenOrElseOrEnd(tok lexer.Token) bool {
	return isKeyword(tok, "then") || isKeyword(tok, "else") || isKeyword(tok, "end")
}
func isElseOrEnd(tok lexer.Token) bool { return isKeyword(tok, "else") || isKeyword(tok, "end") }
func isEnd(tok lexer.Token) bool       { return isKeyword(tok, "end") }
