// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

import (
	"reflect"
	"testing"
)

func TestExtractBalanced(t *testing.T) {
	cases := []struct {
		in        string
		start     int
		wantInner string
		wantNext  int
		wantOK    bool
	}{
		{"id_post)", 0, "id_post", 8, true},
		{"addSynapse, $(id_post))rest", 0, "addSynapse, $(id_post)", 23, true},
		{"unterminated", 0, "", 0, false},
	}
	for _, c := range cases {
		inner, next, ok := extractBalanced(c.in, c.start)
		if inner != c.wantInner || next != c.wantNext || ok != c.wantOK {
			t.Errorf("extractBalanced(%q, %d) = %q, %d, %v; want %q, %d, %v",
				c.in, c.start, inner, next, ok, c.wantInner, c.wantNext, c.wantOK)
		}
	}
}

func TestSplitTopLevel(t *testing.T) {
	got := splitTopLevel("addSynapse, $(id_post), 1", ',')
	want := []string{"addSynapse", " $(id_post)", " 1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTopLevel = %#v, want %#v", got, want)
	}
}

func TestSplitHeadArgs(t *testing.T) {
	head, args, hasArgs := splitHeadArgs("id_post")
	if head != "id_post" || hasArgs || args != nil {
		t.Errorf("splitHeadArgs(bare) = %q, %v, %v", head, args, hasArgs)
	}

	head, args, hasArgs = splitHeadArgs("addSynapse, $(id_post)")
	if head != "addSynapse" || !hasArgs || !reflect.DeepEqual(args, []string{"$(id_post)"}) {
		t.Errorf("splitHeadArgs(func) = %q, %v, %v", head, args, hasArgs)
	}
}
