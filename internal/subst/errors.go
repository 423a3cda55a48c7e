// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

// UnresolvedPlaceholderError reports a $(...) token that survived
// ApplyCheckUnreplaced: every placeholder reachable from the active
// scope chain resolved to something else, so this one is either
// misspelled, missing its scope binding, or the wrong arity.
type UnresolvedPlaceholderError struct {
	Context     string
	Placeholder string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return "subst: unresolved placeholder $(" + e.Placeholder + ") in " + e.Context
}
