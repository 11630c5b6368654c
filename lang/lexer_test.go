package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	ks := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexSpawnCall(t *testing.T) {
	tokens, err := Lex(`spawn_process("A", 1, 0, [("Cpu", 3)])`)
	require.NoError(t, err)

	assert.Equal(t, []TokenKind{
		TokenIdentifier, TokenLeftParen,
		TokenStringLiteral, TokenComma,
		TokenNumber, TokenComma,
		TokenNumber, TokenComma,
		TokenLeftBracket, TokenLeftParen, TokenStringLiteral, TokenComma, TokenNumber,
		TokenRightParen, TokenRightBracket,
		TokenRightParen,
		TokenEOF,
	}, kinds(tokens))

	assert.Equal(t, "spawn_process", tokens[0].Lexeme)
	assert.Equal(t, "A", tokens[2].Lexeme, "string lexeme excludes the quotes")
	assert.Equal(t, "Cpu", tokens[10].Lexeme)
}

func TestLexConstantSpellings(t *testing.T) {
	tokens, err := Lex("threads_count = 4\nmax_processes :: 10")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenIdentifier, TokenAssign, TokenNumber,
		TokenIdentifier, TokenColonColon, TokenNumber,
		TokenEOF,
	}, kinds(tokens))
}

func TestLexForLoop(t *testing.T) {
	tokens, err := Lex("for i in 0..10 { spawn_random_process() }")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenKeyword, TokenIdentifier, TokenKeyword,
		TokenNumber, TokenDotDot, TokenNumber,
		TokenLeftCurly,
		TokenIdentifier, TokenLeftParen, TokenRightParen,
		TokenRightCurly,
		TokenEOF,
	}, kinds(tokens))
	assert.Equal(t, "for", tokens[0].Lexeme)
	assert.Equal(t, "in", tokens[2].Lexeme)
}

func TestLexSkipsCommentsAndWhitespace(t *testing.T) {
	tokens, err := Lex("# a comment\n  42 # trailing\n")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenNumber, tokens[0].Kind)
	assert.Equal(t, "42", tokens[0].Lexeme)
	assert.Equal(t, TokenEOF, tokens[1].Kind)
}

func TestLexTracksLineAndColumn(t *testing.T) {
	tokens, err := Lex("first\n  second")
	require.NoError(t, err)
	assert.Equal(t, 1, tokens[0].Span.Line)
	assert.Equal(t, 1, tokens[0].Span.Column)
	assert.Equal(t, 2, tokens[1].Span.Line)
	assert.Equal(t, 3, tokens[1].Span.Column)
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"unexpected character", "a ? b", "1:3"},
		{"lone dot", "1.5", "1:2"},
		{"unterminated string", `"abc`, "unterminated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Lex(tc.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLexEmptySource(t *testing.T) {
	tokens, err := Lex("")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Kind)
}
