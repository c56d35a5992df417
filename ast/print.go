package ast

import (
	"fmt"
	"io"
	"strings"
)

func print(node Node, w io.Writer, indent string, printPositions bool) {
	var depth int
	Inspect(node, func(n Node) bool {
		if n == nil {
			depth--
			return true
		}

		prefix := strings.Repeat(indent, depth)
		var pos string
		if printPositions {
			span := n.Bounds()
			pos = fmt.Sprintf("[%d...%d]", span.Start, span.End)
		}
		fmt.Fprintf(w, "%s%s%s%s\n", prefix, n.Type(), label(n), pos)
		depth++
		return true
	})
}

// label is the short detail printed after a node's type.
func label(n Node) string {
	switch n := n.(type) {
	case *Identifier:
		return " " + n.Name
	case *PrivateIdentifier:
		return " #" + n.Name
	case *Literal:
		switch {
		case n.Regex != nil:
			return fmt.Sprintf(" /%s/%s", n.Regex.Pattern, n.Regex.Flags)
		case n.BigInt != "":
			return " " + n.BigInt + "n"
		}
		return fmt.Sprintf(" %#v", n.Value)
	case *BinaryExpression:
		return " " + n.Operator
	case *LogicalExpression:
		return " " + n.Operator
	case *AssignmentExpression:
		return " " + n.Operator
	case *UnaryExpression:
		return " " + n.Operator
	case *UpdateExpression:
		return " " + n.Operator
	case *VariableDeclaration:
		return " " + n.Kind
	case *MethodDefinition:
		return " " + n.Kind
	}
	return ""
}

// Print the AST to the provided writer with the specified indent.
func Print(node Node, w io.Writer, indent string) {
	print(node, w, indent, false)
}

// PrintPositions prints the AST to the provided writer with
// the specified indent and node positions.
func PrintPositions(node Node, w io.Writer, indent string) {
	print(node, w, indent, true)
}
