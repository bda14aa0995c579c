// Package rule defines the contract every rewrite rule implements.
package rule

import (
	"github.com/DeusData/unminify/internal/ast"
	"github.com/DeusData/unminify/internal/lang"
)

// Context is read-only data shared by every rule of one pipeline run.
type Context struct {
	// ModuleMeta describes the module system of the file (format, chunk id, ...).
	ModuleMeta map[string]any
	// ModuleMapping maps an opaque module identifier to a readable name.
	ModuleMapping map[string]string
}

// ModuleName returns the mapped name of a module id.
func (c *Context) ModuleName(id string) (string, bool) {
	if c == nil || c.ModuleMapping == nil {
		return "", false
	}
	name, ok := c.ModuleMapping[id]
	return name, ok
}

// Rule is one self-contained rewrite policy. Transform mutates root in place;
// a rule that matches nothing returns nil and leaves the tree alone.
type Rule struct {
	ID          string
	Description string
	Transform   func(root *ast.Node, ctx *Context) error
}

// FileInfo is the input of one pipeline run.
type FileInfo struct {
	Path   string
	Source []byte
	Lang   lang.Language // empty means JavaScript
}
