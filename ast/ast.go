// Package ast declares the ESTree node types produced by the parser.
//
// Field names follow ESTree; the json tags are the ESTree property names
// and are honored by Encode. Every node embeds a Span holding its byte
// range and, when requested, its line/column location.
package ast

// Position is a 1-based line and a 0-based byte column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type SourceLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Span is the source extent of a node. Start and End are byte offsets,
// End exclusive. Loc is nil unless location tracking was requested.
type Span struct {
	Start int
	End   int
	Loc   *SourceLocation
}

// Bounds returns the span itself so the parser can stamp positions on any node.
func (s *Span) Bounds() *Span { return s }

// Node is the interface all AST nodes implement.
type Node interface {
	Type() string
	Bounds() *Span
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Pattern is a binding or assignment target: Identifier, MemberExpression,
// ObjectPattern, ArrayPattern, RestElement or AssignmentPattern.
type Pattern interface {
	Node
	patternNode()
}

// ClassElement is a MethodDefinition, PropertyDefinition or StaticBlock.
type ClassElement interface {
	Node
	classElementNode()
}

// ModuleSpecifier is an import or export specifier.
type ModuleSpecifier interface {
	Node
	specifierNode()
}

// Program is the root node of every AST.
type Program struct {
	Span
	Body       []Statement `json:"body"`
	SourceType string      `json:"sourceType"`
}

// ---------- Statements ----------

type ExpressionStatement struct {
	Span
	Expression Expression `json:"expression"`
	// Directive is the raw text of a directive prologue entry, without quotes.
	Directive string `json:"directive,omitempty"`
}

type BlockStatement struct {
	Span
	Body []Statement `json:"body"`
}

type EmptyStatement struct {
	Span
}

type DebuggerStatement struct {
	Span
}

type WithStatement struct {
	Span
	Object Expression `json:"object"`
	Body   Statement  `json:"body"`
}

type ReturnStatement struct {
	Span
	Argument Expression `json:"argument"` // may be nil
}

type LabeledStatement struct {
	Span
	Label *Identifier `json:"label"`
	Body  Statement   `json:"body"`
}

type BreakStatement struct {
	Span
	Label *Identifier `json:"label"` // may be nil
}

type ContinueStatement struct {
	Span
	Label *Identifier `json:"label"` // may be nil
}

type IfStatement struct {
	Span
	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate"` // may be nil
}

type SwitchStatement struct {
	Span
	Discriminant Expression    `json:"discriminant"`
	Cases        []*SwitchCase `json:"cases"`
}

type SwitchCase struct {
	Span
	Test       Expression  `json:"test"` // nil for default
	Consequent []Statement `json:"consequent"`
}

type ThrowStatement struct {
	Span
	Argument Expression `json:"argument"`
}

type TryStatement struct {
	Span
	Block     *BlockStatement `json:"block"`
	Handler   *CatchClause    `json:"handler"`   // may be nil
	Finalizer *BlockStatement `json:"finalizer"` // may be nil
}

type CatchClause struct {
	Span
	Param Pattern         `json:"param"` // nil for `catch {}`
	Body  *BlockStatement `json:"body"`
}

type WhileStatement struct {
	Span
	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

type DoWhileStatement struct {
	Span
	Body Statement  `json:"body"`
	Test Expression `json:"test"`
}

type ForStatement struct {
	Span
	Init   Node       `json:"init"` // *VariableDeclaration, Expression or nil
	Test   Expression `json:"test"`
	Update Expression `json:"update"`
	Body   Statement  `json:"body"`
}

type ForInStatement struct {
	Span
	Left  Node       `json:"left"` // *VariableDeclaration or Pattern
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

type ForOfStatement struct {
	Span
	Left  Node       `json:"left"` // *VariableDeclaration or Pattern
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
	Await bool       `json:"await"`
}

// ---------- Declarations ----------

type VariableDeclaration struct {
	Span
	Kind         string                `json:"kind"` // "var", "let" or "const"
	Declarations []*VariableDeclarator `json:"declarations"`
}

type VariableDeclarator struct {
	Span
	ID   Pattern    `json:"id"`
	Init Expression `json:"init"` // may be nil
}

type FunctionDeclaration struct {
	Span
	ID        *Identifier     `json:"id"` // nil only in `export default function () {}`
	Params    []Pattern       `json:"params"`
	Body      *BlockStatement `json:"body"`
	Async     bool            `json:"async"`
	Generator bool            `json:"generator"`
}

type ClassDeclaration struct {
	Span
	ID         *Identifier `json:"id"` // nil only in `export default class {}`
	SuperClass Expression  `json:"superClass"`
	Body       *ClassBody  `json:"body"`
}

type ClassBody struct {
	Span
	Body []ClassElement `json:"body"`
}

type MethodDefinition struct {
	Span
	Key      Expression          `json:"key"` // Identifier, Literal, PrivateIdentifier or computed expression
	Value    *FunctionExpression `json:"value"`
	Kind     string              `json:"kind"` // "constructor", "method", "get" or "set"
	Computed bool                `json:"computed"`
	Static   bool                `json:"static"`
}

type PropertyDefinition struct {
	Span
	Key      Expression `json:"key"`
	Value    Expression `json:"value"` // may be nil
	Computed bool       `json:"computed"`
	Static   bool       `json:"static"`
}

type StaticBlock struct {
	Span
	Body []Statement `json:"body"`
}

// ---------- Modules ----------

type ImportDeclaration struct {
	Span
	Specifiers []ModuleSpecifier  `json:"specifiers"`
	Source     *Literal           `json:"source"`
	Attributes []*ImportAttribute `json:"attributes,omitempty"`
}

type ImportSpecifier struct {
	Span
	Imported Node        `json:"imported"` // *Identifier or string *Literal
	Local    *Identifier `json:"local"`
}

type ImportDefaultSpecifier struct {
	Span
	Local *Identifier `json:"local"`
}

type ImportNamespaceSpecifier struct {
	Span
	Local *Identifier `json:"local"`
}

type ImportAttribute struct {
	Span
	Key   Node     `json:"key"` // *Identifier or string *Literal
	Value *Literal `json:"value"`
}

type ExportNamedDeclaration struct {
	Span
	Declaration Statement          `json:"declaration"` // may be nil
	Specifiers  []ModuleSpecifier  `json:"specifiers"`
	Source      *Literal           `json:"source"` // may be nil
	Attributes  []*ImportAttribute `json:"attributes,omitempty"`
}

type ExportSpecifier struct {
	Span
	Local    Node `json:"local"`    // *Identifier or string *Literal
	Exported Node `json:"exported"` // *Identifier or string *Literal
}

type ExportDefaultDeclaration struct {
	Span
	Declaration Node `json:"declaration"` // declaration or Expression
}

type ExportAllDeclaration struct {
	Span
	Exported   Node               `json:"exported"` // nil for `export * from`
	Source     *Literal           `json:"source"`
	Attributes []*ImportAttribute `json:"attributes,omitempty"`
}

// ---------- Expressions ----------

type Identifier struct {
	Span
	Name string `json:"name"`
}

type PrivateIdentifier struct {
	Span
	Name string `json:"name"` // without the leading '#'
}

// RegExpValue is the pattern and flags of a regular expression literal.
type RegExpValue struct {
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// Literal covers strings, numbers, booleans, null, regular expressions and
// bigints. Value is a string, float64, bool or nil; regular expression and
// bigint literals carry a nil Value and describe themselves in Regex and
// BigInt.
type Literal struct {
	Span
	Value  interface{}  `json:"value"`
	Raw    string       `json:"raw,omitempty"`
	Regex  *RegExpValue `json:"regex,omitempty"`
	BigInt string       `json:"bigint,omitempty"`
}

type ThisExpression struct {
	Span
}

type Super struct {
	Span
}

type ArrayExpression struct {
	Span
	Elements []Expression `json:"elements"` // nil entries are holes
}

type ObjectExpression struct {
	Span
	Properties []Node `json:"properties"` // *Property or *SpreadElement
}

// Property is an object literal member, or an ObjectPattern member when
// Value is a Pattern.
type Property struct {
	Span
	Key       Expression `json:"key"`
	Value     Node       `json:"value"`
	Kind      string     `json:"kind"` // "init", "get" or "set"
	Method    bool       `json:"method"`
	Shorthand bool       `json:"shorthand"`
	Computed  bool       `json:"computed"`
}

type FunctionExpression struct {
	Span
	ID        *Identifier     `json:"id"` // may be nil
	Params    []Pattern       `json:"params"`
	Body      *BlockStatement `json:"body"`
	Async     bool            `json:"async"`
	Generator bool            `json:"generator"`
}

type ArrowFunctionExpression struct {
	Span
	Params []Pattern `json:"params"`
	Body   Node      `json:"body"` // *BlockStatement or Expression
	Async  bool      `json:"async"`
	// Expression is set for a concise body.
	Expression bool `json:"expression"`
}

type ClassExpression struct {
	Span
	ID         *Identifier `json:"id"` // may be nil
	SuperClass Expression  `json:"superClass"`
	Body       *ClassBody  `json:"body"`
}

type TemplateLiteral struct {
	Span
	Quasis      []*TemplateElement `json:"quasis"`
	Expressions []Expression       `json:"expressions"`
}

// TemplateValue holds both readings of a template chunk. Cooked is nil when
// a tagged template contains an invalid escape.
type TemplateValue struct {
	Cooked *string `json:"cooked"`
	Raw    string  `json:"raw"`
}

type TemplateElement struct {
	Span
	Value TemplateValue `json:"value"`
	Tail  bool          `json:"tail"`
}

type TaggedTemplateExpression struct {
	Span
	Tag   Expression       `json:"tag"`
	Quasi *TemplateLiteral `json:"quasi"`
}

type MemberExpression struct {
	Span
	Object   Expression `json:"object"` // Expression or *Super
	Property Expression `json:"property"`
	Computed bool       `json:"computed"`
	Optional bool       `json:"optional"`
}

type CallExpression struct {
	Span
	Callee    Expression   `json:"callee"` // Expression or *Super
	Arguments []Expression `json:"arguments"`
	Optional  bool         `json:"optional"`
}

// ChainExpression wraps an optional chain such as a?.b.c().
type ChainExpression struct {
	Span
	Expression Expression `json:"expression"`
}

type NewExpression struct {
	Span
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

type UpdateExpression struct {
	Span
	Operator string     `json:"operator"`
	Argument Expression `json:"argument"`
	Prefix   bool       `json:"prefix"`
}

type UnaryExpression struct {
	Span
	Operator string     `json:"operator"`
	Argument Expression `json:"argument"`
	Prefix   bool       `json:"prefix"`
}

type BinaryExpression struct {
	Span
	Operator string     `json:"operator"`
	Left     Expression `json:"left"` // *PrivateIdentifier for `#x in obj`
	Right    Expression `json:"right"`
}

type LogicalExpression struct {
	Span
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

type AssignmentExpression struct {
	Span
	Operator string     `json:"operator"`
	Left     Pattern    `json:"left"`
	Right    Expression `json:"right"`
}

type ConditionalExpression struct {
	Span
	Test       Expression `json:"test"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

type SequenceExpression struct {
	Span
	Expressions []Expression `json:"expressions"`
}

type YieldExpression struct {
	Span
	Argument Expression `json:"argument"` // may be nil
	Delegate bool       `json:"delegate"`
}

type AwaitExpression struct {
	Span
	Argument Expression `json:"argument"`
}

type SpreadElement struct {
	Span
	Argument Expression `json:"argument"`
}

// MetaProperty is new.target or import.meta.
type MetaProperty struct {
	Span
	Meta     *Identifier `json:"meta"`
	Property *Identifier `json:"property"`
}

// ImportExpression is a dynamic import(). Options is the optional second
// argument and is only accepted with the Next option.
type ImportExpression struct {
	Span
	Source  Expression `json:"source"`
	Options Expression `json:"options,omitempty"`
}

// ---------- Patterns ----------

type ObjectPattern struct {
	Span
	Properties []Node `json:"properties"` // *Property or *RestElement
}

type ArrayPattern struct {
	Span
	Elements []Pattern `json:"elements"` // nil entries are holes
}

type RestElement struct {
	Span
	Argument Pattern `json:"argument"`
}

type AssignmentPattern struct {
	Span
	Left  Pattern    `json:"left"`
	Right Expression `json:"right"`
}

// ---------- Node kinds ----------

func (*Program) Type() string                  { return "Program" }
func (*ExpressionStatement) Type() string      { return "ExpressionStatement" }
func (*BlockStatement) Type() string           { return "BlockStatement" }
func (*EmptyStatement) Type() string           { return "EmptyStatement" }
func (*DebuggerStatement) Type() string        { return "DebuggerStatement" }
func (*WithStatement) Type() string            { return "WithStatement" }
func (*ReturnStatement) Type() string          { return "ReturnStatement" }
func (*LabeledStatement) Type() string         { return "LabeledStatement" }
func (*BreakStatement) Type() string           { return "BreakStatement" }
func (*ContinueStatement) Type() string        { return "ContinueStatement" }
func (*IfStatement) Type() string              { return "IfStatement" }
func (*SwitchStatement) Type() string          { return "SwitchStatement" }
func (*SwitchCase) Type() string               { return "SwitchCase" }
func (*ThrowStatement) Type() string           { return "ThrowStatement" }
func (*TryStatement) Type() string             { return "TryStatement" }
func (*CatchClause) Type() string              { return "CatchClause" }
func (*WhileStatement) Type() string           { return "WhileStatement" }
func (*DoWhileStatement) Type() string         { return "DoWhileStatement" }
func (*ForStatement) Type() string             { return "ForStatement" }
func (*ForInStatement) Type() string           { return "ForInStatement" }
func (*ForOfStatement) Type() string           { return "ForOfStatement" }
func (*VariableDeclaration) Type() string      { return "VariableDeclaration" }
func (*VariableDeclarator) Type() string       { return "VariableDeclarator" }
func (*FunctionDeclaration) Type() string      { return "FunctionDeclaration" }
func (*ClassDeclaration) Type() string         { return "ClassDeclaration" }
func (*ClassBody) Type() string                { return "ClassBody" }
func (*MethodDefinition) Type() string         { return "MethodDefinition" }
func (*PropertyDefinition) Type() string       { return "PropertyDefinition" }
func (*StaticBlock) Type() string              { return "StaticBlock" }
func (*ImportDeclaration) Type() string        { return "ImportDeclaration" }
func (*ImportSpecifier) Type() string          { return "ImportSpecifier" }
func (*ImportDefaultSpecifier) Type() string   { return "ImportDefaultSpecifier" }
func (*ImportNamespaceSpecifier) Type() string { return "ImportNamespaceSpecifier" }
func (*ImportAttribute) Type() string          { return "ImportAttribute" }
func (*ExportNamedDeclaration) Type() string   { return "ExportNamedDeclaration" }
func (*ExportSpecifier) Type() string          { return "ExportSpecifier" }
func (*ExportDefaultDeclaration) Type() string { return "ExportDefaultDeclaration" }
func (*ExportAllDeclaration) Type() string     { return "ExportAllDeclaration" }
func (*Identifier) Type() string               { return "Identifier" }
func (*PrivateIdentifier) Type() string        { return "PrivateIdentifier" }
func (*Literal) Type() string                  { return "Literal" }
func (*ThisExpression) Type() string           { return "ThisExpression" }
func (*Super) Type() string                    { return "Super" }
func (*ArrayExpression) Type() string          { return "ArrayExpression" }
func (*ObjectExpression) Type() string         { return "ObjectExpression" }
func (*Property) Type() string                 { return "Property" }
func (*FunctionExpression) Type() string       { return "FunctionExpression" }
func (*ArrowFunctionExpression) Type() string  { return "ArrowFunctionExpression" }
func (*ClassExpression) Type() string          { return "ClassExpression" }
func (*TemplateLiteral) Type() string          { return "TemplateLiteral" }
func (*TemplateElement) Type() string          { return "TemplateElement" }
func (*TaggedTemplateExpression) Type() string { return "TaggedTemplateExpression" }
func (*MemberExpression) Type() string         { return "MemberExpression" }
func (*CallExpression) Type() string           { return "CallExpression" }
func (*ChainExpression) Type() string          { return "ChainExpression" }
func (*NewExpression) Type() string            { return "NewExpression" }
func (*UpdateExpression) Type() string         { return "UpdateExpression" }
func (*UnaryExpression) Type() string          { return "UnaryExpression" }
func (*BinaryExpression) Type() string         { return "BinaryExpression" }
func (*LogicalExpression) Type() string        { return "LogicalExpression" }
func (*AssignmentExpression) Type() string     { return "AssignmentExpression" }
func (*ConditionalExpression) Type() string    { return "ConditionalExpression" }
func (*SequenceExpression) Type() string       { return "SequenceExpression" }
func (*YieldExpression) Type() string          { return "YieldExpression" }
func (*AwaitExpression) Type() string          { return "AwaitExpression" }
func (*SpreadElement) Type() string            { return "SpreadElement" }
func (*MetaProperty) Type() string             { return "MetaProperty" }
func (*ImportExpression) Type() string         { return "ImportExpression" }
func (*ObjectPattern) Type() string            { return "ObjectPattern" }
func (*ArrayPattern) Type() string             { return "ArrayPattern" }
func (*RestElement) Type() string              { return "RestElement" }
func (*AssignmentPattern) Type() string        { return "AssignmentPattern" }

// Statements

func (*ExpressionStatement) statementNode()      {}
func (*BlockStatement) statementNode()           {}
func (*EmptyStatement) statementNode()           {}
func (*DebuggerStatement) statementNode()        {}
func (*WithStatement) statementNode()            {}
func (*ReturnStatement) statementNode()          {}
func (*LabeledStatement) statementNode()         {}
func (*BreakStatement) statementNode()           {}
func (*ContinueStatement) statementNode()        {}
func (*IfStatement) statementNode()              {}
func (*SwitchStatement) statementNode()          {}
func (*ThrowStatement) statementNode()           {}
func (*TryStatement) statementNode()             {}
func (*WhileStatement) statementNode()           {}
func (*DoWhileStatement) statementNode()         {}
func (*ForStatement) statementNode()             {}
func (*ForInStatement) statementNode()           {}
func (*ForOfStatement) statementNode()           {}
func (*VariableDeclaration) statementNode()      {}
func (*FunctionDeclaration) statementNode()      {}
func (*ClassDeclaration) statementNode()         {}
func (*ImportDeclaration) statementNode()        {}
func (*ExportNamedDeclaration) statementNode()   {}
func (*ExportDefaultDeclaration) statementNode() {}
func (*ExportAllDeclaration) statementNode()     {}

// Expressions

func (*Identifier) expressionNode()               {}
func (*PrivateIdentifier) expressionNode()        {}
func (*Literal) expressionNode()                  {}
func (*ThisExpression) expressionNode()           {}
func (*Super) expressionNode()                    {}
func (*ArrayExpression) expressionNode()          {}
func (*ObjectExpression) expressionNode()         {}
func (*FunctionExpression) expressionNode()       {}
func (*ArrowFunctionExpression) expressionNode()  {}
func (*ClassExpression) expressionNode()          {}
func (*TemplateLiteral) expressionNode()          {}
func (*TaggedTemplateExpression) expressionNode() {}
func (*MemberExpression) expressionNode()         {}
func (*CallExpression) expressionNode()           {}
func (*ChainExpression) expressionNode()          {}
func (*NewExpression) expressionNode()            {}
func (*UpdateExpression) expressionNode()         {}
func (*UnaryExpression) expressionNode()          {}
func (*BinaryExpression) expressionNode()         {}
func (*LogicalExpression) expressionNode()        {}
func (*AssignmentExpression) expressionNode()     {}
func (*ConditionalExpression) expressionNode()    {}
func (*SequenceExpression) expressionNode()       {}
func (*YieldExpression) expressionNode()          {}
func (*AwaitExpression) expressionNode()          {}
func (*SpreadElement) expressionNode()            {}
func (*MetaProperty) expressionNode()             {}
func (*ImportExpression) expressionNode()         {}

// Patterns

func (*Identifier) patternNode()        {}
func (*MemberExpression) patternNode()  {}
func (*ObjectPattern) patternNode()     {}
func (*ArrayPattern) patternNode()      {}
func (*RestElement) patternNode()       {}
func (*AssignmentPattern) patternNode() {}

// Class elements

func (*MethodDefinition) classElementNode()   {}
func (*PropertyDefinition) classElementNode() {}
func (*StaticBlock) classElementNode()        {}

// Module specifiers

func (*ImportSpecifier) specifierNode()          {}
func (*ImportDefaultSpecifier) specifierNode()   {}
func (*ImportNamespaceSpecifier) specifierNode() {}
func (*ExportSpecifier) specifierNode()          {}
