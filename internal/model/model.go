// Package model defines the records shared by the catalog, the extractors and
// the emitters.
package model

import "strings"

// Type is a best-effort type classification. Source-derived records use the
// constants below; FFI records carry raw C type text.
type Type string

const (
	Any     Type = "any"
	String  Type = "string"
	Number  Type = "number"
	Boolean Type = "boolean"
	Table   Type = "table"
	Func    Type = "function"
	Void    Type = "void"
	Unknown Type = "unknown"
)

// Kind records which channel produced a Function.
type Kind string

const (
	KindGlobal       Kind = "global"
	KindNamespaced   Kind = "namespaced"
	KindTable        Kind = "table"
	KindLocal        Kind = "local"
	KindFFI          Kind = "ffi"
	KindHelper       Kind = "helper"
	KindReference    Kind = "reference"
	KindUndocumented Kind = "undocumented"
	KindExposed      Kind = "exposed"
)

// Reserved pseudo-namespaces.
const (
	NamespaceGlobal = "global"
	NamespaceLocal  = "local"
	NamespaceC      = "C"
	NamespaceHelper = "Helper"
)

// Parameter is one positional parameter of a Function.
type Parameter struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Optional    bool   `json:"optional,omitempty"`
	Description string `json:"description,omitempty"`
}

// Usage is one observed call site of an inferred function.
type Usage struct {
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
}

// Function is the unit of knowledge about one callable.
type Function struct {
	Name        string      `json:"name"`
	Namespace   string      `json:"namespace,omitempty"`
	Kind        Kind        `json:"kind,omitempty"`
	Parameters  []Parameter `json:"parameters"`
	ReturnType  Type        `json:"returnType"`
	Source      string      `json:"source,omitempty"`
	Files       []string    `json:"files,omitempty"`
	Usages      []Usage     `json:"usages,omitempty"`
	Declaration string      `json:"declaration,omitempty"`
	Description string      `json:"description"`
	Detailed    string      `json:"detailed"`
	Notes       string      `json:"notes"`
	Deprecated  bool        `json:"deprecated,omitempty"`

	// Body is the scrubbed body text, used only for return-type inference.
	Body string `json:"-"`
}

// Key returns the catalog key "namespace.name".
func (f *Function) Key() string {
	return f.Namespace + "." + f.Name
}

// ParamNames returns the parameter names in order.
func (f *Function) ParamNames() []string {
	names := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		names[i] = p.Name
	}
	return names
}

// Clone returns a deep copy of f.
func (f *Function) Clone() *Function {
	c := *f
	c.Parameters = append([]Parameter(nil), f.Parameters...)
	c.Files = append([]string(nil), f.Files...)
	c.Usages = append([]Usage(nil), f.Usages...)
	return &c
}

// CType is a type declared inside a foreign-function block.
type CType struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Declaration string `json:"declaration"`
	File        string `json:"file"`
}

// ExposureKind tags the two "expose globally" idioms.
type ExposureKind string

const (
	Direct  ExposureKind = "direct"
	Wrapped ExposureKind = "wrapper"
)

// Transform classifies how a wrapper rewrites its arguments before forwarding.
type Transform string

const (
	// Prepend forwards the caller's arguments after fixed leading expressions.
	Prepend Transform = "prepend"
	// PassThrough forwards everything unchanged.
	PassThrough Transform = "passthrough"
	// FixedArgs always calls the target with the same argument list.
	FixedArgs Transform = "fixed"
)

// Wrapper describes an inline function literal that forwards to the target.
type Wrapper struct {
	Params       string    `json:"wrapperParams"`
	TargetArgs   string    `json:"targetParams"`
	Fixed        []string  `json:"fixedParams"`
	ForwardsRest bool      `json:"forwardsRest"`
	Transform    Transform `json:"transform"`
}

// Describe renders the transformation for human readers.
func (w *Wrapper) Describe() string {
	switch w.Transform {
	case Prepend:
		return "Prepends fixed parameters: " + strings.Join(w.Fixed, ", ")
	case PassThrough:
		return "Passes all parameters directly"
	default:
		return "Uses fixed parameters: " + w.TargetArgs
	}
}

// Exposure maps a bare global name onto a namespaced target. Wrapper is set
// exactly when Kind is Wrapped.
type Exposure struct {
	Name        string       `json:"name"`
	Kind        ExposureKind `json:"type"`
	Target      string       `json:"original"`
	File        string       `json:"file"`
	Wrapper     *Wrapper     `json:"wrapper,omitempty"`
	Description string       `json:"description"`
}

// TargetNamespace returns the namespace part of the target path, or "" when
// the target is not a two-part path.
func (e *Exposure) TargetNamespace() string {
	ns, name, ok := strings.Cut(e.Target, ".")
	if !ok || strings.Contains(name, ".") {
		return ""
	}
	return ns
}

// ResolvedExposure is an Exposure with its effective signature.
type ResolvedExposure struct {
	Exposure
	Parameters []Parameter `json:"parameters"`
	ReturnType Type        `json:"returnType"`
	Variadic   bool        `json:"variadic,omitempty"`
	Unresolved bool        `json:"unresolved,omitempty"`
}

// Function returns the exposure as a global function record. A variadic
// signature gains a trailing "..." parameter.
func (r ResolvedExposure) Function() *Function {
	params := append([]Parameter{}, r.Parameters...)
	if r.Variadic {
		params = append(params, Parameter{Name: "...", Type: Any})
	}
	return &Function{
		Name:        r.Name,
		Namespace:   NamespaceGlobal,
		Kind:        KindExposed,
		Parameters:  params,
		ReturnType:  r.ReturnType,
		Source:      r.File,
		Description: r.Description,
	}
}
