package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/glitter/pkg/token"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "+", token.Plus.String())
	assert.Equal(t, "EOF", token.EndOfFile.String())
	assert.Contains(t, token.Kind(9999).String(), "Kind(")
}

func TestNumberAccessorPanicsOnWrongKind(t *testing.T) {
	tok := token.Token{Kind: token.String}
	assert.Panics(t, func() { tok.Number() })
}

func TestStrAccessorPanicsOnWrongKind(t *testing.T) {
	tok := token.Token{Kind: token.Number}
	assert.Panics(t, func() { tok.Str() })
}

func TestStrAccessorAcceptsIdentifier(t *testing.T) {
	tok := token.Token{Kind: token.Identifier, StringValue: "foo"}
	assert.Equal(t, "foo", tok.Str())
}

func TestKeywordsMapsReservedWords(t *testing.T) {
	kind, ok := token.Keywords["function"]
	assert.True(t, ok)
	assert.Equal(t, token.Function, kind)
}
