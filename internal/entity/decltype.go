package entity

import "github.com/sdv-framework/sdvidlc/internal/lexer"

// ArrayDim is one `[expr]` modifier on a declaration type. Size is valid
// only when Dynamic is false; when the dimension expression referenced a
// non-const variable, Expr is preserved for the generators to re-render.
type ArrayDim struct {
	Expr    []lexer.Token
	Size    int64
	Dynamic bool
}

// DeclType is a declaration's type: a reference to a definition plus a
// modifier stack of array-dimension expressions and a read-only flag.
type DeclType struct {
	Definition Handle
	Dims       []ArrayDim
	ReadOnly   bool
}

// IsArray reports whether the declaration has at least one array dimension.
func (t DeclType) IsArray() bool { return len(t.Dims) > 0 }
