package ast

import "reflect"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the non-nil child nodes of n in field order.
func Children(n Node) []Node {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil
	}
	v = v.Elem()
	var children []Node
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).Anonymous {
			continue
		}
		children = appendNodes(children, v.Field(i))
	}
	return children
}

func appendNodes(children []Node, f reflect.Value) []Node {
	switch f.Kind() {
	case reflect.Interface, reflect.Ptr:
		if f.IsNil() {
			return children
		}
		if n, ok := f.Interface().(Node); ok {
			return append(children, n)
		}
	case reflect.Slice:
		for i := 0; i < f.Len(); i++ {
			children = appendNodes(children, f.Index(i))
		}
	}
	return children
}
