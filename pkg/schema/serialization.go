package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads and validates a document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode survey flow document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads and validates a document from a JSON file.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey flow document: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Save serializes the document to w. Together with Load this round-trips: the
// output describes an equivalent document, modulo any shuffle already applied
// to randomized groups at run time.
func (d *Document) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode survey flow document: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the flow tree. The interpreter shuffles group
// children in place, so callers that need the authored order afterwards walk a
// clone.
func (n *FlowNode) Clone() *FlowNode {
	if n == nil {
		return nil
	}
	out := *n
	out.Then = n.Then.Clone()
	out.Else = n.Else.Clone()
	if n.Nodes != nil {
		out.Nodes = make([]*FlowNode, len(n.Nodes))
		for i, c := range n.Nodes {
			out.Nodes[i] = c.Clone()
		}
	}
	return &out
}
