// File: scopeconf/tree/tree.go

// Package tree builds fixed-schema record types with parent/child
// navigation. A NodeType is compiled once from a list of FieldSpecs; its
// instances carry typed field values, an ordered sequence of exclusively
// owned children, and a non-owning back-reference to their parent.
//
//	nt, err := tree.Define(
//	    scopeconf.FieldSpec{Name: "label", Kind: scopeconf.KindString, Required: true},
//	    scopeconf.FieldSpec{Name: "weight", Kind: scopeconf.KindInt, Default: 1},
//	)
//	root, err := nt.New(map[string]any{"label": "menu"})
//	item, err := root.AddChild(map[string]any{"label": "open"})
//	item.Parent() // root
//
// Pre-order traversal over children in insertion order (Walk) is the
// canonical enumeration order for the whole tree.
package tree

import (
	"errors"
	"fmt"

	"scopeconf"
)

// Sentinel errors for tree construction and attachment.
var (
	// ErrParentConflict indicates an attempt to attach a node that already
	// has a parent, or an attachment that would create a cycle.
	ErrParentConflict = errors.New("parent conflict")

	// ErrUnknownField indicates a value supplied for a field the node's
	// type does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotChild indicates a removal of a node that is not a child of the
	// receiver.
	ErrNotChild = errors.New("not a child of this node")
)

// NodeType is a compiled record schema: an ordered field list with a
// precompiled name index used to type-check every construction and
// mutation.
type NodeType struct {
	specs []scopeconf.FieldSpec
	index map[string]int
}

// Define compiles a NodeType from field declarations. Field names must be
// unique within the list; each spec is validated the same way scope
// declarations are. Calling Define twice with the same specs produces two
// independently usable types that type-check identically.
func Define(specs ...scopeconf.FieldSpec) (*NodeType, error) {
	nt := &NodeType{
		specs: make([]scopeconf.FieldSpec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		normalized, err := spec.Normalize()
		if err != nil {
			return nil, err
		}

		if _, exists := nt.index[normalized.Name]; exists {
			return nil, &scopeconf.DuplicateFieldError{Field: normalized.Name}
		}
		nt.index[normalized.Name] = len(nt.specs)
		nt.specs = append(nt.specs, normalized)
	}

	return nt, nil
}

// Fields returns a copy of the type's field declarations in order.
func (t *NodeType) Fields() []scopeconf.FieldSpec {
	out := make([]scopeconf.FieldSpec, len(t.specs))
	copy(out, t.specs)
	return out
}

// New constructs a root node. Every supplied value is coerced to its
// field's declared kind; fields not supplied take their default, and a
// required field with neither value nor default fails with a
// MissingFieldError. Unknown field names are rejected.
func (t *NodeType) New(values map[string]any) (*Node, error) {
	for name := range values {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	node := &Node{
		typ:    t,
		values: make(map[string]any, len(t.specs)),
	}

	for _, spec := range t.specs {
		if raw, ok := values[spec.Name]; ok {
			// An explicit nil is a present value and passes through Coerce.
			value, err := spec.Coerce(raw)
			if err != nil {
				return nil, err
			}
			node.values[spec.Name] = value
			continue
		}

		if spec.Default != nil {
			node.values[spec.Name] = spec.Default
			continue
		}
		if spec.Required {
			return nil, &scopeconf.MissingFieldError{Field: spec.Name}
		}
		node.values[spec.Name] = nil
	}

	return node, nil
}

// Node is an instance of a NodeType: typed field values plus tree links.
// The children sequence is mutated only through AddChild/Attach/Remove,
// which are not safe for unsynchronized concurrent use on the same parent.
type Node struct {
	typ      *NodeType
	values   map[string]any
	parent   *Node
	children []*Node
}

// Type returns the node's schema.
func (n *Node) Type() *NodeType { return n.typ }

// Get returns a field's current value and whether the field is declared.
func (n *Node) Get(name string) (any, bool) {
	if _, ok := n.typ.index[name]; !ok {
		return nil, false
	}
	return n.values[name], true
}

// Set assigns a field value, coercing it to the declared kind. Unknown
// fields and incompatible values are rejected; the node is never left
// partially updated.
func (n *Node) Set(name string, value any) error {
	idx, ok := n.typ.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	coerced, err := n.typ.specs[idx].Coerce(value)
	if err != nil {
		return err
	}
	n.values[name] = coerced
	return nil
}

// Parent returns the owning node, or nil for a root. The reference is a
// lookup relation only; it grants no ownership over the parent's children.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the ordered child sequence.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.children) }

// AddChild constructs a child of the same NodeType from values, links it
// under this node, and returns it. Children keep insertion order.
func (n *Node) AddChild(values map[string]any) (*Node, error) {
	return n.AttachNew(n.typ, values)
}

// AttachNew constructs a child of an explicitly declared NodeType and
// links it under this node.
func (n *Node) AttachNew(t *NodeType, values map[string]any) (*Node, error) {
	child, err := t.New(values)
	if err != nil {
		return nil, err
	}
	child.parent = n
	n.children = append(n.children, child)
	return child, nil
}

// Attach adopts an existing parentless node (and its subtree) as the last
// child. A node that already has a parent, the node itself, or any of its
// ancestors is rejected with ErrParentConflict: children are exclusively
// owned and the structure must stay a tree.
func (n *Node) Attach(child *Node) error {
	if child == nil {
		return fmt.Errorf("cannot attach nil node")
	}
	if child.parent != nil {
		return fmt.Errorf("%w: node already attached elsewhere", ErrParentConflict)
	}
	for anc := n; anc != nil; anc = anc.parent {
		if anc == child {
			return fmt.Errorf("%w: attachment would create a cycle", ErrParentConflict)
		}
	}

	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// Remove detaches a direct child, destroying the parent's ownership of the
// child's whole subtree. The detached node becomes a root.
func (n *Node) Remove(child *Node) error {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return nil
		}
	}
	return fmt.Errorf("%w", ErrNotChild)
}

// Walk visits the node and its subtree depth-first, pre-order, children in
// insertion order. The visit function returns false to stop the walk early;
// Walk reports whether the walk ran to completion.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, child := range n.children {
		if !child.Walk(visit) {
			return false
		}
	}
	return true
}

// Find returns the first node in Walk order satisfying pred, or nil.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if pred(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// AsMap returns a copy of the node's field values. Children are not
// included; use Walk to enumerate the tree.
func (n *Node) AsMap() map[string]any {
	out := make(map[string]any, len(n.values))
	for k, v := range n.values {
		out[k] = v
	}
	return out
}

// Reset restores every field to its default (nil when the spec has none).
// With cascade, children are reset too; the tree structure is unchanged.
func (n *Node) Reset(cascade bool) {
	for _, spec := range n.typ.specs {
		n.values[spec.Name] = spec.Default
	}
	if cascade {
		for _, child := range n.children {
			child.Reset(cascade)
		}
	}
}
