package parser

import (
	"github.com/SKalt/meriyah-sub000/ast"
	"github.com/SKalt/meriyah-sub000/diag"
	"github.com/SKalt/meriyah-sub000/token"
)

// context is the set of grammar parameters in effect at the current
// position. It is a value: nested functions and classes save it, derive a
// new one and restore the saved copy on exit.
type context struct {
	strict bool

	inFunction  bool // return is allowed
	inGenerator bool // yield is an operator
	inAsync     bool // await is an operator

	allowSuperCall     bool
	allowSuperProperty bool
	allowNewTarget     bool

	inClassFieldInit   bool // arguments is forbidden
	inClassStaticBlock bool // arguments and await are forbidden

	allowIn bool // `in` is a binary operator, false in for-loop heads
}

// functionContext derives the context of a non-arrow function body.
func (c context) functionContext(async, generator bool) context {
	return context{
		strict:         c.strict,
		inFunction:     true,
		inGenerator:    generator,
		inAsync:        async,
		allowNewTarget: true,
		allowIn:        true,
	}
}

// arrowContext derives the context of an arrow function body: this, super,
// new.target and arguments come from the enclosing function.
func (c context) arrowContext(async bool) context {
	c.inFunction = true
	c.inGenerator = false
	c.inAsync = async
	c.inClassStaticBlock = false
	return c
}

// ---------- Scopes ----------

type scopeFlags int

const (
	scopeTop scopeFlags = 1 << iota
	scopeFunction
	scopeArrow
	scopeSimpleCatch
	scopeStaticBlock

	scopeVar = scopeTop | scopeFunction | scopeStaticBlock
)

type bindingKind int

const (
	bindNone     bindingKind = iota // not a binding
	bindVar                         // var-style binding
	bindLexical                     // let, const or class
	bindFunction                    // sloppy function declaration
	bindCatch                       // simple catch parameter
	bindOutside                     // checked but not declared, e.g. a function's own name
)

// scope tracks the names declared in one block or function. Declarations
// are only checked for conflicts when Options.Lexical is set.
type scope struct {
	flags     scopeFlags
	vars      map[string]bool
	lexical   map[string]bool
	functions map[string]bool
	catchName string // the parameter of a simple catch clause
}

func (p *Parser) enterScope(flags scopeFlags) {
	p.scopes = append(p.scopes, &scope{
		flags:     flags,
		vars:      map[string]bool{},
		lexical:   map[string]bool{},
		functions: map[string]bool{},
	})
}

func (p *Parser) exitScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) currentScope() *scope {
	return p.scopes[len(p.scopes)-1]
}

// treatFunctionsAsVar reports whether function declarations in sc behave
// like var declarations: in function bodies and at the top of scripts.
func (p *Parser) treatFunctionsAsVar(sc *scope) bool {
	return sc.flags&scopeFunction != 0 || (p.opts.SourceType != Module && sc.flags&scopeTop != 0)
}

// declareName records a binding in the current scope and reports
// redeclarations.
func (p *Parser) declareName(id *ast.Identifier, kind bindingKind) {
	if !p.opts.Lexical {
		return
	}
	name := id.Name
	redeclared := false
	switch kind {
	case bindLexical:
		sc := p.currentScope()
		redeclared = sc.lexical[name] || sc.functions[name] || sc.vars[name]
		sc.lexical[name] = true
		if p.opts.SourceType == Module && sc.flags&scopeTop != 0 {
			delete(p.undefinedExports, name)
		}
	case bindCatch:
		sc := p.currentScope()
		sc.lexical[name] = true
		sc.catchName = name
	case bindFunction:
		sc := p.currentScope()
		if p.treatFunctionsAsVar(sc) {
			redeclared = sc.lexical[name]
		} else {
			redeclared = sc.lexical[name] || sc.vars[name]
			if !p.opts.WebCompat && sc.functions[name] {
				redeclared = true
			}
		}
		sc.functions[name] = true
	default:
		for i := len(p.scopes) - 1; i >= 0; i-- {
			sc := p.scopes[i]
			if sc.lexical[name] && !(sc.flags&scopeSimpleCatch != 0 && sc.catchName == name) ||
				!p.treatFunctionsAsVar(sc) && sc.functions[name] {
				redeclared = true
				break
			}
			sc.vars[name] = true
			if p.opts.SourceType == Module && sc.flags&scopeTop != 0 {
				delete(p.undefinedExports, name)
			}
			if sc.flags&scopeVar != 0 {
				break
			}
		}
	}
	if redeclared {
		p.fail(diag.DuplicateBinding, id.Start, "Identifier '%s' has already been declared", name)
	}
}

// ---------- Labels ----------

type labelKind int

const (
	labelPlain labelKind = iota
	labelLoop
	labelSwitch
)

type label struct {
	name  string // empty for the implicit label of a loop or switch
	kind  labelKind
	start int // start of the statement the label applies to
}

// ---------- Deferred function checks ----------

// funcChecks collects what a function body can still invalidate. A body
// that turns strict through a directive re-validates the name and the
// parameters that were accepted under sloppy rules.
type funcChecks struct {
	id           *ast.Identifier
	params       []*ast.Identifier
	simpleParams bool
	// duplicates were not rejected while parsing the parameters
	duplicatesDeferred bool
}

// becameStrict runs the checks that depend on a "use strict" directive.
func (p *Parser) becameStrict(directive int) {
	fn := p.fn
	if fn == nil {
		return
	}
	if !fn.simpleParams {
		p.fail(diag.StrictParams, directive,
			"Illegal 'use strict' directive in function with non-simple parameter list")
	}
}

// flushStrictChecks re-validates names once a function body is known to be
// strict.
func (p *Parser) flushStrictChecks() {
	fn := p.fn
	if fn.id != nil {
		p.checkStrictBinding(fn.id)
	}
	seen := map[string]bool{}
	for _, id := range fn.params {
		p.checkStrictBinding(id)
		if fn.duplicatesDeferred && seen[id.Name] {
			p.fail(diag.DuplicateBinding, id.Start, "Duplicate parameter name not allowed in this context")
		}
		seen[id.Name] = true
	}
}

func (p *Parser) checkStrictBinding(id *ast.Identifier) {
	if id.Name == "eval" || id.Name == "arguments" {
		p.fail(diag.StrictModeViolation, id.Start, "Binding %s in strict mode", id.Name)
	}
	if token.StrictReserved[id.Name] && !(p.opts.AllowReserved && allowedReserved[id.Name]) {
		p.fail(diag.ReservedWord, id.Start, "The keyword '%s' is reserved", id.Name)
	}
}

// ---------- Private names ----------

// privateNames tracks the #names of one class body.
type privateNames struct {
	declared map[string]string // name -> "field", "get", "set", "static get", ...
	used     []*ast.PrivateIdentifier
}

func (p *Parser) enterClassBody() *privateNames {
	pn := &privateNames{declared: map[string]string{}}
	p.classes = append(p.classes, pn)
	return pn
}

// exitClassBody resolves the #names used in the class. Unresolved names
// move to the enclosing class, or fail at the outermost one.
func (p *Parser) exitClassBody() {
	pn := p.classes[len(p.classes)-1]
	p.classes = p.classes[:len(p.classes)-1]
	var parent *privateNames
	if len(p.classes) > 0 {
		parent = p.classes[len(p.classes)-1]
	}
	for _, id := range pn.used {
		if _, ok := pn.declared[id.Name]; ok {
			continue
		}
		if parent != nil {
			parent.used = append(parent.used, id)
			continue
		}
		p.fail(diag.UndeclaredPrivateName, id.Start,
			"Private field '#%s' must be declared in an enclosing class", id.Name)
	}
}

// declarePrivateName records a #name declaration. A getter and a setter of
// the same staticness may share a name.
func (p *Parser) declarePrivateName(id *ast.PrivateIdentifier, kind string, static bool) {
	pn := p.classes[len(p.classes)-1]
	if static && kind != "field" {
		kind = "static " + kind
	}
	prev, ok := pn.declared[id.Name]
	switch {
	case !ok:
		pn.declared[id.Name] = kind
	case prev == "get" && kind == "set", prev == "set" && kind == "get",
		prev == "static get" && kind == "static set", prev == "static set" && kind == "static get":
		pn.declared[id.Name] = "accessor"
	default:
		p.fail(diag.DuplicatePrivateName, id.Start, "Identifier '#%s' has already been declared", id.Name)
	}
}

// ---------- Reserved words ----------

// allowedReserved lists the strict reserved words that AllowReserved
// accepts as identifiers.
var allowedReserved = map[string]bool{
	"implements": true,
	"interface":  true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
}

// checkUnreserved rejects identifier names that the current context
// reserves.
func (p *Parser) checkUnreserved(id *ast.Identifier, escaped bool) {
	name := id.Name
	if p.ctx.inGenerator && name == "yield" {
		p.fail(diag.IllegalYield, id.Start, "Cannot use 'yield' as identifier inside a generator")
	}
	if p.ctx.inAsync && name == "await" {
		p.fail(diag.IllegalAwait, id.Start, "Cannot use 'await' as identifier inside an async function")
	}
	if (p.ctx.inClassFieldInit || p.ctx.inClassStaticBlock) && name == "arguments" {
		p.fail(diag.InvalidClassMember, id.Start,
			"'arguments' is not allowed in class field initializer or static initialization block")
	}
	if p.ctx.inClassStaticBlock && name == "await" {
		p.fail(diag.IllegalAwait, id.Start, "Cannot use 'await' in class static initialization block")
	}
	if tt := token.LookupIdentifier(name); tt.IsKeyword() {
		if escaped {
			p.fail(diag.InvalidIdentifier, id.Start, "Keyword must not contain escaped characters")
		}
		p.fail(diag.ReservedWord, id.Start, "Unexpected keyword '%s'", name)
	}
	if name == "await" && p.opts.SourceType == Module {
		p.fail(diag.IllegalAwait, id.Start, "Cannot use keyword 'await' outside an async function")
	}
	if p.ctx.strict && token.StrictReserved[name] && !(p.opts.AllowReserved && allowedReserved[name]) {
		p.fail(diag.ReservedWord, id.Start, "The keyword '%s' is reserved", name)
	}
}

// ---------- Assignment and binding targets ----------

// checkLValSimple validates an identifier or member expression used as an
// assignment target or binding, declaring bindings in the current scope.
// clashes, when non-nil, collects parameter names to reject duplicates.
func (p *Parser) checkLValSimple(n ast.Node, kind bindingKind, clashes map[string]bool) {
	isBind := kind != bindNone
	switch n := n.(type) {
	case *ast.Identifier:
		if p.ctx.strict && (n.Name == "eval" || n.Name == "arguments") {
			if isBind {
				p.fail(diag.StrictModeViolation, n.Start, "Binding %s in strict mode", n.Name)
			}
			p.fail(diag.StrictModeViolation, n.Start, "Assigning to %s in strict mode", n.Name)
		}
		if !isBind {
			return
		}
		if kind == bindLexical && n.Name == "let" {
			p.fail(diag.ReservedWord, n.Start, "let is disallowed as a lexically bound name")
		}
		if clashes != nil {
			if clashes[n.Name] {
				p.fail(diag.DuplicateBinding, n.Start, "Duplicate parameter name not allowed in this context")
			}
			clashes[n.Name] = true
		}
		if kind != bindOutside {
			p.declareName(n, kind)
		}
	case *ast.MemberExpression:
		if isBind {
			p.fail(diag.InvalidDestructuringTarget, n.Start, "Binding member expression")
		}
	case *ast.ChainExpression:
		p.fail(diag.InvalidAssignmentTarget, n.Start, "Optional chaining cannot appear in left-hand side")
	default:
		if isBind {
			p.fail(diag.InvalidDestructuringTarget, n.Bounds().Start, "Binding rvalue")
		}
		p.fail(diag.InvalidAssignmentTarget, n.Bounds().Start, "Invalid left-hand side in assignment")
	}
}

// checkLValPattern validates every target inside a pattern.
func (p *Parser) checkLValPattern(n ast.Node, kind bindingKind, clashes map[string]bool) {
	switch n := n.(type) {
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			p.checkLValInner(prop, kind, clashes)
		}
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				p.checkLValInner(el, kind, clashes)
			}
		}
	default:
		p.checkLValSimple(n, kind, clashes)
	}
}

func (p *Parser) checkLValInner(n ast.Node, kind bindingKind, clashes map[string]bool) {
	switch n := n.(type) {
	case *ast.Property:
		p.checkLValInner(n.Value, kind, clashes)
	case *ast.AssignmentPattern:
		p.checkLValPattern(n.Left, kind, clashes)
	case *ast.RestElement:
		p.checkLValPattern(n.Argument, kind, clashes)
	default:
		p.checkLValPattern(n, kind, clashes)
	}
}

// boundNames appends the identifiers a pattern binds.
func boundNames(ids []*ast.Identifier, n ast.Node) []*ast.Identifier {
	switch n := n.(type) {
	case *ast.Identifier:
		ids = append(ids, n)
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			ids = boundNames(ids, prop)
		}
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				ids = boundNames(ids, el)
			}
		}
	case *ast.Property:
		ids = boundNames(ids, n.Value)
	case *ast.AssignmentPattern:
		ids = boundNames(ids, n.Left)
	case *ast.RestElement:
		ids = boundNames(ids, n.Argument)
	}
	return ids
}
