package stylesheet_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	src := "@media print { .a { x: 1; } .b { } }\n" +
		"@font-face { src: url(a.woff); }\n" +
		"@font-feature-values Font { }\n" +
		"@import 'x.css';\n" +
		".c, .d { color: rgb(1, 2, 3); margin: 0 auto }"
	tree := stylesheet.Parse(src, "#mw-content-text ")

	data, err := stylesheet.Encode(tree)
	require.NoError(t, err)

	decoded, err := stylesheet.Decode(data)
	require.NoError(t, err)

	if diff := cmp.Diff(tree, decoded); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}

	policy := stylesheet.NewPolicy([]string{"rgb"}, nil)
	want := stylesheet.NewRenderer()
	want.Add(tree)
	got := stylesheet.NewRenderer()
	got.Add(decoded)
	assert.Equal(t, want.Render(policy), got.Render(policy))
}

func TestCodec_RoundTripIsExact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{
			name: "invalid utf-8 in value",
			src:  ".a { b: \xff; }",
		},
		{
			name: "invalid utf-8 in selector and prelude",
			src:  "@media \xfe { .\xff { b: c; } }",
		},
		{
			name: "empty other body",
			src:  "@page { }",
		},
		{
			name: "empty source",
			src:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := stylesheet.Parse(tt.src, "#c ")
			data, err := stylesheet.Encode(tree)
			require.NoError(t, err)

			decoded, err := stylesheet.Decode(data)
			require.NoError(t, err)
			if diff := cmp.Diff(tree, decoded); diff != "" {
				t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ReplacesInvalidUTF8(t *testing.T) {
	t.Parallel()

	tree := stylesheet.Parse(".a { b: \xff; }", "")
	rules := tree.Rules()
	require.Len(t, rules, 1)
	value, ok := rules[0].Declarations.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"\ufffd"}, value)
}

func TestCodec_EmptyOtherBodySurvives(t *testing.T) {
	t.Parallel()

	tree := stylesheet.Tree{&stylesheet.Other{Name: "@page", Body: &stylesheet.Declarations{}}}
	data, err := stylesheet.Encode(tree)
	require.NoError(t, err)

	decoded, err := stylesheet.Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	other, ok := decoded[0].(*stylesheet.Other)
	require.True(t, ok)
	assert.NotNil(t, other.Body)
	assert.Empty(t, *other.Body)
}

func TestCodec_EmptyTree(t *testing.T) {
	t.Parallel()

	data, err := stylesheet.Encode(nil)
	require.NoError(t, err)

	decoded, err := stylesheet.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{
			name: "empty",
			data: nil,
			err:  stylesheet.ErrCorruptBlob,
		},
		{
			name: "not gzip",
			data: []byte("not gzip"),
			err:  stylesheet.ErrCorruptBlob,
		},
		{
			name: "not json",
			data: gzipBytes(t, "{"),
			err:  stylesheet.ErrCorruptBlob,
		},
		{
			name: "future version",
			data: gzipBytes(t, `{"v":2,"tree":[]}`),
			err:  stylesheet.ErrUnsupportedVersion,
		},
		{
			name: "unknown node kind",
			data: gzipBytes(t, `{"v":1,"tree":[{"kind":"keyframes"}]}`),
			err:  stylesheet.ErrUnknownNodeKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := stylesheet.Decode(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, tree)
		})
	}
}
