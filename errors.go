package trellis

import (
	"errors"
	"fmt"
)

// Structural errors
var (
	// ErrStructural is matched by every recoverable tree or attribute error.
	ErrStructural = errors.New("structural error")

	// ErrNotAChild indicates that a node is not a child of the claimed parent.
	ErrNotAChild = fmt.Errorf("%w: not a child", ErrStructural)

	// ErrInvalidAttribute indicates a rejected attribute value.
	ErrInvalidAttribute = fmt.Errorf("%w: invalid attribute", ErrStructural)
)

// Snapshot errors
var (
	// ErrForeignSnapshot indicates a snapshot taken from a different node.
	ErrForeignSnapshot = errors.New("snapshot belongs to another node")
)

// NotAChildError is returned by structural operations when Child is not
// currently a child of Parent.
type NotAChildError struct {
	Parent *Node
	Child  *Node
}

func (e *NotAChildError) Error() string {
	return fmt.Sprintf("trellis: node %q is not a child of %q", nodeName(e.Child), nodeName(e.Parent))
}

// Unwrap lets errors.Is match ErrNotAChild and ErrStructural.
func (e *NotAChildError) Unwrap() error { return ErrNotAChild }

// InvalidAttributeError is returned when an attribute value is rejected,
// currently for NaN and infinite numbers.
type InvalidAttributeError struct {
	Key   string
	Value any
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("trellis: invalid value %v for attribute %q", e.Value, e.Key)
}

// Unwrap lets errors.Is match ErrInvalidAttribute and ErrStructural.
func (e *InvalidAttributeError) Unwrap() error { return ErrInvalidAttribute }

// ProtocolViolation is the panic value raised when a node type is
// misconfigured for the drag protocol, e.g. a drop target without a
// DropExecutor. It is never recovered by the engine.
type ProtocolViolation struct {
	Op   string
	Node *Node
	Msg  string
}

func (p ProtocolViolation) Error() string {
	return fmt.Sprintf("trellis: protocol violation in %s on %q: %s", p.Op, nodeName(p.Node), p.Msg)
}

func violation(op string, n *Node, msg string) {
	panic(ProtocolViolation{Op: op, Node: n, Msg: msg})
}

func nodeName(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name
}
