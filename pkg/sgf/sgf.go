// Package sgf reads and writes a pragmatic subset of SGF: enough to save
// games, load positions and dump search trees for inspection.
package sgf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Node is one SGF node: a property map plus child variations.
type Node struct {
	Props    map[string][]string
	Children []*Node
}

func NewNode() *Node {
	return &Node{Props: map[string][]string{}}
}

func (n *Node) Set(key string, values ...string) *Node {
	n.Props[key] = values
	return n
}

func (n *Node) Get(key string) (string, bool) {
	v, ok := n.Props[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Parse reads one game tree. Properties outside the supported subset are
// kept verbatim, so parse-then-write round-trips.
func Parse(r io.Reader) (*Node, error) {
	p := &parser{r: bufio.NewReader(r)}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	root, err := p.sequence()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	r *bufio.Reader
}

func (p *parser) next() (byte, error) {
	for {
		c, err := p.r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c, nil
	}
}

func (p *parser) expect(want byte) error {
	c, err := p.next()
	if err != nil {
		return err
	}
	if c != want {
		return fmt.Errorf("sgf: expected %q, got %q", want, c)
	}
	return nil
}

// sequence parses ";node;node(...)(...)" up to the closing parenthesis and
// returns the first node of the chain.
func (p *parser) sequence() (*Node, error) {
	var first, last *Node
	for {
		c, err := p.next()
		if err != nil {
			return nil, fmt.Errorf("sgf: unexpected end of input: %w", err)
		}
		switch c {
		case ';':
			node, err := p.node()
			if err != nil {
				return nil, err
			}
			if last != nil {
				last.AddChild(node)
			} else {
				first = node
			}
			last = node
		case '(':
			if last == nil {
				return nil, fmt.Errorf("sgf: variation before first node")
			}
			child, err := p.sequence()
			if err != nil {
				return nil, err
			}
			last.AddChild(child)
		case ')':
			if first == nil {
				return nil, fmt.Errorf("sgf: empty sequence")
			}
			return first, nil
		default:
			return nil, fmt.Errorf("sgf: unexpected %q", c)
		}
	}
}

func (p *parser) node() (*Node, error) {
	node := NewNode()
	for {
		c, err := p.next()
		if err != nil {
			return nil, err
		}
		if !isUpper(c) {
			if err := p.r.UnreadByte(); err != nil {
				return nil, err
			}
			return node, nil
		}
		ident := []byte{c}
		for {
			c, err := p.r.ReadByte()
			if err != nil {
				return nil, err
			}
			if !isUpper(c) {
				if err := p.r.UnreadByte(); err != nil {
					return nil, err
				}
				break
			}
			ident = append(ident, c)
		}
		var values []string
		for {
			c, err := p.next()
			if err != nil {
				return nil, err
			}
			if c != '[' {
				if err := p.r.UnreadByte(); err != nil {
					return nil, err
				}
				break
			}
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("sgf: property %s without value", ident)
		}
		node.Props[string(ident)] = values
	}
}

func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		c, err := p.r.ReadByte()
		if err != nil {
			return "", err
		}
		switch c {
		case '\\':
			esc, err := p.r.ReadByte()
			if err != nil {
				return "", err
			}
			b.WriteByte(esc)
		case ']':
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// Write renders the tree as one SGF game tree.
func (n *Node) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := writeSequence(bw, n); err != nil {
		return err
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeSequence(w *bufio.Writer, n *Node) error {
	w.WriteByte('(')
	for {
		if err := writeNode(w, n); err != nil {
			return err
		}
		if len(n.Children) == 1 {
			n = n.Children[0]
			continue
		}
		for _, child := range n.Children {
			if err := writeSequence(w, child); err != nil {
				return err
			}
		}
		break
	}
	w.WriteByte(')')
	return nil
}

func writeNode(w *bufio.Writer, n *Node) error {
	w.WriteByte(';')
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.WriteString(k)
		for _, v := range n.Props[k] {
			w.WriteByte('[')
			w.WriteString(escape(v))
			w.WriteByte(']')
		}
	}
	return nil
}

func escape(v string) string {
	if !strings.ContainsAny(v, "]\\") {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == ']' || v[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	return b.String()
}
