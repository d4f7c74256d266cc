package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []Token
	}{
		{
			name:    "literal only",
			pattern: "HDR",
			want:    []Token{{Literal: "HDR"}},
		},
		{
			name:    "iban style",
			pattern: "${bankCode:8}${accountNumber:10}",
			want: []Token{
				{Field: &Field{Expr: "bankCode", Width: intPtr(8), Offset: 0}},
				{Field: &Field{Expr: "accountNumber", Width: intPtr(10), Offset: 13}},
			},
		},
		{
			name:    "literals around placeholder",
			pattern: "A${x}B",
			want: []Token{
				{Literal: "A"},
				{Field: &Field{Expr: "x", Offset: 1}},
				{Literal: "B"},
			},
		},
		{
			name:    "placeholder override without width",
			pattern: "${x::--}",
			want:    []Token{{Field: &Field{Expr: "x", Placeholder: strPtr("--")}}},
		},
		{
			name:    "placeholder keeps extra colons",
			pattern: "${t:8:00:00:00}",
			want:    []Token{{Field: &Field{Expr: "t", Width: intPtr(8), Placeholder: strPtr("00:00:00")}}},
		},
		{
			name:    "empty placeholder override",
			pattern: "${x:3:}",
			want:    []Token{{Field: &Field{Expr: "x", Width: intPtr(3), Placeholder: strPtr("")}}},
		},
		{
			name:    "key list with colon and brace",
			pattern: `${m["a:b,c}"]:4}`,
			want:    []Token{{Field: &Field{Expr: `m["a:b,c}"]`, Width: intPtr(4)}}},
		},
		{
			name:    "range inside path",
			pattern: "${transactions[0..9]:45}",
			want:    []Token{{Field: &Field{Expr: "transactions[0..9]", Width: intPtr(45)}}},
		},
		{
			name:    "repeat count",
			pattern: "${items:45}[10]",
			want: []Token{{Field: &Field{
				Expr: "items", Width: intPtr(45),
				Repeat: &Repeat{Kind: RepeatCount, Start: 0, End: 9},
			}}},
		},
		{
			name:    "repeat open and tail",
			pattern: "${items:5}[2..*]END",
			want: []Token{
				{Field: &Field{Expr: "items", Width: intPtr(5), Repeat: &Repeat{Kind: RepeatOpen, Start: 2, End: -1}}},
				{Literal: "END"},
			},
		},
		{
			name:    "repeat until null",
			pattern: "${items}[*]",
			want:    []Token{{Field: &Field{Expr: "items", Repeat: &Repeat{Kind: RepeatUntilNull}}}},
		},
		{
			name:    "bracket literal after placeholder",
			pattern: "${x}[abc]",
			want: []Token{
				{Field: &Field{Expr: "x"}},
				{Literal: "[abc]"},
			},
		},
		{
			name:    "dollar escape and lone dollar",
			pattern: "$${x} costs $5",
			want:    []Token{{Literal: "${x} costs $5"}},
		},
		{
			name:    "empty pattern",
			pattern: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr error
		offset  int
	}{
		{name: "unterminated", pattern: "ab${x:8", wantErr: ErrUnterminatedPlaceholder, offset: 2},
		{name: "unterminated quote", pattern: `${m["k}`, wantErr: ErrUnterminatedPlaceholder},
		{name: "non numeric width", pattern: "${x:eight}", wantErr: ErrInvalidWidth},
		{name: "negative width", pattern: "${x:-1}", wantErr: ErrInvalidWidth},
		{name: "empty expression", pattern: "${:8}", wantErr: ErrEmptyExpression},
		{name: "unterminated repeat", pattern: "${x}[10", wantErr: ErrUnterminatedRepeat, offset: 4},
		{name: "reversed range", pattern: "${x}[5..2]", wantErr: ErrInvalidRepeat, offset: 4},
		{name: "garbage range", pattern: "${x}[1..z]", wantErr: ErrInvalidRepeat, offset: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			require.ErrorIs(t, err, tt.wantErr)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.offset, se.Offset)
		})
	}
}

func TestCompile_Idempotent(t *testing.T) {
	const p = `HDR${a.b[2]:4:?}|${m["x,y"]}${items:3}[1..*]$$`

	first, err := Compile(p)
	require.NoError(t, err)

	second, err := Compile(p)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	var rebuilt string
	for _, tok := range first {
		rebuilt += tok.String()
	}

	assert.Equal(t, p, rebuilt)
}

func TestRepeat(t *testing.T) {
	r, err := ParseRepeat("10")
	require.NoError(t, err)
	assert.True(t, r.Bounded())
	assert.Equal(t, 10, r.Len())
	assert.Equal(t, "[10]", r.String())

	r, err = ParseRepeat("3..7")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, "[3..7]", r.String())

	r, err = ParseRepeat("4..*")
	require.NoError(t, err)
	assert.False(t, r.Bounded())
	assert.Equal(t, -1, r.Len())
	assert.Equal(t, "[4..*]", r.String())
}

func TestFields(t *testing.T) {
	tokens, err := Compile("A${x}B${y:2}")
	require.NoError(t, err)

	fields := Fields(tokens)

	require.Len(t, fields, 2)
	assert.Equal(t, "x", fields[0].Expr)
	assert.Equal(t, "y", fields[1].Expr)
}
