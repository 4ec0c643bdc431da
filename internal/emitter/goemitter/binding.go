package goemitter

import (
	"bytes"
	"fmt"

	"github.com/mark3labs/httpgen/internal/spec"
)

// partition splits methods into the inherent set and the interface-bound
// ones, each keeping declaration order.
func partition(methods []*GeneratedMethod) (inherent, bound []*GeneratedMethod) {
	for _, m := range methods {
		if m.Binding.IsExternal() {
			bound = append(bound, m)
		} else {
			inherent = append(inherent, m)
		}
	}
	return inherent, bound
}

func checkBinding(ep *spec.EndpointSpec) error {
	if !ep.Binding.IsExternal() || ep.Binding.Contract.Expr != "" {
		return nil
	}
	pos := ep.Binding.Contract.Pos
	if !pos.IsValid() {
		pos = ep.Pos
	}
	return spec.Errorf(spec.MissingContract, pos, "endpoint %s is bound to an interface but names none", methodName(ep))
}

// writeBindingBlock emits m as the implementation of its interface, with a
// compile-time assertion that structName satisfies it.
func writeBindingBlock(buf *bytes.Buffer, structName string, m *GeneratedMethod) {
	contract := m.Binding.Contract.Expr
	fmt.Fprintf(buf, "// %s implementation.\n\n", contract)
	fmt.Fprintf(buf, "var _ %s = (*%s)(nil)\n\n", contract, structName)
	writeMethod(buf, structName, m)
}
