package attr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	Kind string `json:"type"`
}

type usage struct {
	InputTokens  int  `json:"input_tokens"`
	OutputTokens *int `json:"output_tokens,omitempty"`
}

type block struct {
	Base
	Text  *string
	Input json.RawMessage `json:"input"`
	Skip  string          `json:"-"`
	inner string
}

func (b block) Name() string { return "calculator" }

type role string

type lookupOnly map[string]string

func (l lookupOnly) Lookup(field string) (any, bool) {
	v, ok := l[field]
	return v, ok
}

func TestGetMap(t *testing.T) {
	m := map[string]any{"content": "hi", "role": nil}

	assert.Equal(t, "hi", Get(m, "content", nil))
	assert.Equal(t, "default", Get(m, "missing", "default"))
	assert.Equal(t, "default", Get(m, "role", "default"), "nil values count as absent")
}

func TestGetNamedKeyMap(t *testing.T) {
	m := map[role]int{"user": 3}
	assert.Equal(t, 3, Get(m, "user", 0))
	assert.Equal(t, 0, Get(m, "assistant", 0))
}

func TestGetStruct(t *testing.T) {
	text := "hello"
	b := block{Base: Base{Kind: "text"}, Text: &text, Input: json.RawMessage(`{"a":1}`), Skip: "x", inner: "y"}

	assert.Equal(t, "text", Get(b, "type", nil), "promoted field by json tag")
	assert.Equal(t, "hello", Get(b, "text", nil), "pointer fields are dereferenced")
	assert.Equal(t, json.RawMessage(`{"a":1}`), Get(b, "input", nil))
	assert.Equal(t, "calculator", Get(b, "name", nil), "zero-arg accessor method")
	assert.Nil(t, Get(b, "inner", nil), "unexported fields are invisible")
	assert.Equal(t, "x", Get(b, "skip", nil), "json:\"-\" still matches by Go name")
	assert.Nil(t, Get(&b, "missing", nil))
}

func TestGetStructSnakeCase(t *testing.T) {
	type plain struct {
		InputTokens int
	}
	assert.Equal(t, 7, Get(plain{InputTokens: 7}, "input_tokens", nil))

	out := 5
	assert.Equal(t, 5, Get(&usage{InputTokens: 1, OutputTokens: &out}, "output_tokens", nil))
	assert.Equal(t, -1, Get(usage{InputTokens: 1}, "output_tokens", -1))
}

func TestGetOddShapes(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *usage

	for _, v := range []any{nil, 3, "str", []any{1}, nilMap, nilPtr, map[int]string{1: "a"}} {
		assert.Equal(t, "def", Get(v, "content", "def"))
	}
}

func TestForCustomReader(t *testing.T) {
	l := lookupOnly{"role": "user"}
	r, ok := For(l)
	require.True(t, ok)
	v, ok := r.Lookup("role")
	require.True(t, ok)
	assert.Equal(t, "user", v)
	assert.True(t, IsMapLike(l))
}

func TestIsMapLike(t *testing.T) {
	assert.True(t, IsMapLike(map[string]any{}))
	assert.True(t, IsMapLike(&map[string]string{}))
	assert.False(t, IsMapLike(usage{}))
	assert.False(t, IsMapLike("content"))
	assert.False(t, IsMapLike(nil))
}

func TestString(t *testing.T) {
	s, ok := String("x")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	s, ok = String(role("user"))
	assert.True(t, ok)
	assert.Equal(t, "user", s)

	_, ok = String([]byte("x"))
	assert.False(t, ok)
	_, ok = String(nil)
	assert.False(t, ok)
}

func TestListsAndItems(t *testing.T) {
	assert.True(t, IsList([]any{1, "a"}))
	assert.True(t, IsList([2]int{1, 2}))
	assert.True(t, IsList([]map[string]any{}))
	assert.False(t, IsList([]byte("abc")))
	assert.False(t, IsList(json.RawMessage(`[]`)))
	assert.False(t, IsList("abc"))
	assert.False(t, IsList(nil))

	assert.Equal(t, []any{1, "a"}, Items([]any{1, "a"}))
	assert.Equal(t, []any{usage{InputTokens: 1}}, Items([]usage{{InputTokens: 1}}))
	assert.Nil(t, Items(map[string]any{}))
}

func TestIsEmpty(t *testing.T) {
	var nilPtr *usage
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(nilPtr))
	assert.True(t, IsEmpty(map[string]any{}))
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(0))
	assert.False(t, IsEmpty(usage{}))
	assert.False(t, IsEmpty(map[string]any{"input_tokens": 1}))
}

func TestIsNil(t *testing.T) {
	var nilPtr *usage
	var nilAny any = nilPtr
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(nilPtr))
	assert.True(t, IsNil(nilAny))
	assert.False(t, IsNil(&usage{}))
	assert.False(t, IsNil(""))
}
