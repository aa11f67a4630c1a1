package stylesheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// blobVersion is bumped whenever the persisted layout changes.
const blobVersion = 1

const (
	kindMedia = "media"
	kindOther = "other"
	kindPlain = "plain"
)

type blob struct {
	Version int  `json:"v"`
	Tree    Tree `json:"tree"`
}

// nodeEnvelope is the tagged JSON form of a Node.
type nodeEnvelope struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name,omitempty"`
	Prelude  string        `json:"prelude,omitempty"`
	Children Tree          `json:"children,omitempty"`
	Body     *Declarations `json:"body,omitempty"`
	Rules    []Rule        `json:"rules,omitempty"`
}

// MarshalJSON encodes every node with an explicit kind tag.
func (t Tree) MarshalJSON() ([]byte, error) {
	out := make([]nodeEnvelope, 0, len(t))
	for _, n := range t {
		switch n := n.(type) {
		case *Media:
			out = append(out, nodeEnvelope{Kind: kindMedia, Prelude: n.Prelude, Children: n.Children})
		case *Other:
			env := nodeEnvelope{Kind: kindOther, Name: n.Name, Prelude: n.Prelude}
			if n.Body != nil {
				// an empty body must survive as [] rather than null
				body := append(Declarations{}, *n.Body...)
				env.Body = &body
			}
			out = append(out, env)
		case *Plain:
			out = append(out, nodeEnvelope{Kind: kindPlain, Rules: n.Rules})
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownNodeKind, n)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged form produced by MarshalJSON.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var envs []nodeEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	tree := make(Tree, 0, len(envs))
	for _, env := range envs {
		switch env.Kind {
		case kindMedia:
			tree = append(tree, &Media{Prelude: env.Prelude, Children: env.Children})
		case kindOther:
			if env.Body != nil && len(*env.Body) == 0 {
				// the parser leaves an empty body nil
				*env.Body = nil
			}
			tree = append(tree, &Other{Name: env.Name, Prelude: env.Prelude, Body: env.Body})
		case kindPlain:
			tree = append(tree, &Plain{Rules: env.Rules})
		default:
			return fmt.Errorf("%w: %q", ErrUnknownNodeKind, env.Kind)
		}
	}
	if len(tree) == 0 {
		tree = nil
	}
	*t = tree
	return nil
}

// Encode serializes a tree into a compressed, binary-safe blob suitable for
// persisting per content unit.
func Encode(tree Tree) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(blob{Version: blobVersion, Tree: tree}); err != nil {
		return nil, errors.Join(ErrEncodeTree, err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Join(ErrEncodeTree, err)
	}
	return buf.Bytes(), nil
}

// Decode restores a tree produced by Encode.
func Decode(data []byte) (Tree, error) {
	if len(data) == 0 {
		return nil, ErrCorruptBlob
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrCorruptBlob, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Join(ErrCorruptBlob, err)
	}
	var b blob
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.Join(ErrCorruptBlob, err)
	}
	if b.Version != blobVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}
	return b.Tree, nil
}
