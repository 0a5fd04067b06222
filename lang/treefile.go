package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
)

// treeDocument is the serialized form of a [Tree], produced by an external
// parser:
//
//	root: 0
//	nodes:
//	  - {kind: Start, right: 2}
//	  - {kind: String, span: [6, 10]}
//	  - {kind: TextBlock, span: [0, 6]}
//
// Omitted children are absent.
type treeDocument struct {
	Root  int            `yaml:"root"`
	Nodes []nodeDocument `yaml:"nodes"`
}

type nodeDocument struct {
	Kind   string `yaml:"kind"`
	Span   []int  `yaml:"span,omitempty"`
	Left   *int   `yaml:"left,omitempty"`
	Middle *int   `yaml:"middle,omitempty"`
	Right  *int   `yaml:"right,omitempty"`
}

// LoadTree reads the serialized tree stored at path.
func LoadTree(ctx context.Context, path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tree{}, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	t, err := DecodeTree(ctx, f)
	if err != nil {
		return Tree{}, WrapError(err).With(slog.String("path", path))
	}

	return t, nil
}

// DecodeTree reads a serialized tree from YAML or JSON.
func DecodeTree(ctx context.Context, r io.Reader) (Tree, error) {
	var doc treeDocument

	if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
		return Tree{}, ErrInvalidTree.Wrap(err)
	}

	tree := Tree{Root: doc.Root, Nodes: make([]Node, len(doc.Nodes))}

	for i, nd := range doc.Nodes {
		kind, ok := ParseNodeKind(nd.Kind)
		if !ok {
			return Tree{}, ErrInvalidTree.With(
				slog.Int("node", i),
				slog.String("kind", nd.Kind),
			)
		}

		n := Node{
			Kind:   kind,
			Left:   child(nd.Left),
			Middle: child(nd.Middle),
			Right:  child(nd.Right),
		}

		switch len(nd.Span) {
		case 0:
		case 2:
			n.Span = Span{nd.Span[0], nd.Span[1]}
		default:
			return Tree{}, ErrInvalidTree.With(
				slog.Int("node", i),
				slog.String("reason", "span must be [start, end]"),
			)
		}

		tree.Nodes[i] = n
	}

	return tree, nil
}

// EncodeTree writes tree in the form read by [DecodeTree].
func EncodeTree(w io.Writer, tree Tree) error {
	doc := treeDocument{Root: tree.Root, Nodes: make([]nodeDocument, len(tree.Nodes))}

	for i, n := range tree.Nodes {
		nd := nodeDocument{
			Kind:   n.Kind.String(),
			Left:   link(n.Left),
			Middle: link(n.Middle),
			Right:  link(n.Right),
		}

		if n.Span != (Span{}) {
			nd.Span = []int{n.Span.Start, n.Span.End}
		}

		doc.Nodes[i] = nd
	}

	return yaml.NewEncoder(w).Encode(doc)
}

func child(i *int) int {
	if i == nil {
		return None
	}

	return *i
}

func link(i int) *int {
	if i == None {
		return nil
	}

	return &i
}
