// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package subst is the Substitution Layer: a parent-scoped symbol table
// mapping placeholder names to replacement text, plus the
// scalar-precision rewriting pass applied to backend-emitted source.
package subst

import (
	"strconv"
	"strings"

	"github.com/emer/sncode/internal/gpubool"
	"github.com/emer/sncode/internal/netspec"
)

type funcSub struct {
	arity    int
	template string
}

// Scope is one stack frame of the placeholder symbol table: three
// orthogonal maps (variables, functions with arity, already-rendered
// values all live in vars -- a value substitution is just a variable
// substitution whose replacement text happens to be a literal) plus a
// parent pointer. Lookup is parent-first with the innermost scope
// winning on a name conflict (P6).
type Scope struct {
	parent *Scope
	vars   map[string]string
	funcs  map[string]funcSub
}

// NewScope returns a child scope of parent (nil for a root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]string{}, funcs: map[string]funcSub{}}
}

func (s *Scope) lookupVar(name string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return "", false
}

func (s *Scope) lookupFunc(name string) (funcSub, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if f, ok := sc.funcs[name]; ok {
			return f, true
		}
	}
	return funcSub{}, false
}

// AddVarNameSubstitution declares, for each name in vars, that
// $(name+sourceSuffix) resolves to destPrefix+name+destSuffix -- the
// pre/post decoration spec.md 4.5 op 1 describes.
func (s *Scope) AddVarNameSubstitution(vars []string, sourceSuffix, destPrefix, destSuffix string) {
	for _, v := range vars {
		s.vars[v+sourceSuffix] = destPrefix + v + destSuffix
	}
}

// AddVarValueSubstitution declares $(name) for each name in vars to
// resolve to the literal rendering of the matching entry in values at
// the given precision -- op 2.
func (s *Scope) AddVarValueSubstitution(vars []string, values []float64, precision netspec.ScalarPrecision) {
	for i, v := range vars {
		s.vars[v] = FormatLiteral(values[i], precision)
	}
}

// AddParamValueSubstitution declares $(name) for each name in names to
// resolve either to a literal (when het[k] is False, a homogeneous
// slot) or to a per-member field read destPrefix+fieldBase+suffix
// (when het[k] is True, a heterogeneous slot) -- op 3. het is a
// merged-group field-table flag array (internal/gpubool), the same
// accelerator-safe boolean the emitted field tables themselves use.
func (s *Scope) AddParamValueSubstitution(names []string, values []float64, het []gpubool.Bool, destPrefix, fieldBase string, precision netspec.ScalarPrecision) {
	for k, name := range names {
		if k < len(het) && het[k].IsTrue() {
			s.vars[name] = destPrefix + fieldBase + strconv.Itoa(k)
		} else {
			s.vars[name] = FormatLiteral(values[k], precision)
		}
	}
}

// AddLiteralSubstitution declares that $(name) resolves to value
// verbatim, with no prefix/suffix decoration -- for placeholders like
// $(randUniform)/$(num_post) whose replacement text bears no textual
// relationship to the placeholder's own name.
func (s *Scope) AddLiteralSubstitution(name, value string) {
	s.vars[name] = value
}

// AddFuncSubstitution installs a fixed-arity function-form placeholder:
// applying $(name, a0, ..., aN-1) substitutes positional $(0)...$(N-1)
// tokens in template with the supplied arguments -- op 4.
func (s *Scope) AddFuncSubstitution(name string, arity int, template string) {
	s.funcs[name] = funcSub{arity: arity, template: template}
}

func (s *Scope) resolveToken(inner string) (string, bool) {
	head, args, hasArgs := splitHeadArgs(inner)
	if hasArgs {
		fn, ok := s.lookupFunc(head)
		if !ok || fn.arity != len(args) {
			return "", false
		}
		out := fn.template
		for i, a := range args {
			out = strings.ReplaceAll(out, "$("+strconv.Itoa(i)+")", a)
		}
		return out, true
	}
	return s.lookupVar(head)
}

// Apply resolves every placeholder in code that this scope (or an
// ancestor) can resolve, leaving any unresolvable $(...) token
// untouched for a later ApplyCheckUnreplaced call or an outer scope to
// pick up -- calling Apply alone is reserved for contexts where
// placeholders may legitimately pass through (spec.md 4.5).
func (s *Scope) Apply(code string) string {
	var out strings.Builder
	i := 0
	for i < len(code) {
		if i+1 < len(code) && code[i] == '$' && code[i+1] == '(' {
			inner, next, ok := extractBalanced(code, i+2)
			if !ok {
				out.WriteString(code[i:])
				break
			}
			resolvedInner := s.Apply(inner)
			if replacement, resolved := s.resolveToken(resolvedInner); resolved {
				out.WriteString(replacement)
			} else {
				out.WriteString("$(")
				out.WriteString(resolvedInner)
				out.WriteString(")")
			}
			i = next
			continue
		}
		out.WriteByte(code[i])
		i++
	}
	return out.String()
}

// ApplyCheckUnreplaced is Apply followed by the terminal check (spec.md
// 4.5): if any $(...) token remains in the result it returns
// UnresolvedPlaceholderError naming the first one found, with context
// identifying what was being emitted.
func (s *Scope) ApplyCheckUnreplaced(code, context string) (string, error) {
	result := s.Apply(code)
	if tok, ok := firstPlaceholder(result); ok {
		return "", &UnresolvedPlaceholderError{Context: context, Placeholder: tok}
	}
	return result, nil
}

func firstPlaceholder(code string) (string, bool) {
	i := strings.Index(code, "$(")
	if i < 0 {
		return "", false
	}
	inner, _, ok := extractBalanced(code, i+2)
	if !ok {
		return code[i+2:], true
	}
	return inner, true
}

// FormatLiteral renders v as a scalar literal in the given precision:
// a plain Go float syntax for 64 bit, with a trailing f for 32 bit, the
// same single-precision literal convention the teacher's generated
// HLSL uses.
func FormatLiteral(v float64, precision netspec.ScalarPrecision) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	if precision == netspec.Precision32 {
		s += "f"
	}
	return s
}
