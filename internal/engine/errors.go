package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Causes recorded in Warning.Err. BOM generation never fails; these explain
// why a node or variable contributed nothing.
var (
	ErrMissingAssembly    = errors.New("assembly definition not found")
	ErrMissingMaterial    = errors.New("material not found")
	ErrMissingMeasurement = errors.New("measurement not found")
	ErrFormula            = errors.New("formula evaluation failed")
	ErrUnknownChildType   = errors.New("unknown node child type")
)

// CyclicAssemblyError reports an assembly that includes itself directly or
// through its sub-assemblies. Chain lists definition IDs from the outermost
// definition to the repeated one.
type CyclicAssemblyError struct {
	Chain []string
}

func (e *CyclicAssemblyError) Error() string {
	return fmt.Sprintf("cyclic assembly reference: %s", strings.Join(e.Chain, " -> "))
}

// Warning is a diagnostic attached to a generation result.
type Warning struct {
	ItemSet    string
	InstanceID string
	AssemblyID string
	NodeID     string
	Err        error
}

func (w Warning) String() string {
	var b strings.Builder
	if w.ItemSet != "" {
		fmt.Fprintf(&b, "[%s] ", w.ItemSet)
	}
	if w.InstanceID != "" {
		fmt.Fprintf(&b, "instance %s ", w.InstanceID)
	}
	if w.AssemblyID != "" {
		fmt.Fprintf(&b, "assembly %s ", w.AssemblyID)
	}
	if w.NodeID != "" {
		fmt.Fprintf(&b, "node %s ", w.NodeID)
	}
	b.WriteString(w.Err.Error())
	return b.String()
}

// Unwrap exposes the cause so callers can use errors.Is and errors.As.
func (w Warning) Unwrap() error {
	return w.Err
}

// Error implements error so a Warning can be passed where errors are
// expected.
func (w Warning) Error() string {
	return w.String()
}
