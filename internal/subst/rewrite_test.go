// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

import (
	"strings"
	"testing"

	"github.com/emer/sncode/internal/netspec"
)

func TestRewriteForPrecision32(t *testing.T) {
	src := []byte("float64 x = math.Exp(1.5) + 2.0;")
	got := string(RewriteForPrecision(src, netspec.Precision32))
	if strings.Contains(got, "float64") || strings.Contains(got, "math.Exp") {
		t.Errorf("RewriteForPrecision(32) left host-side spellings: %q", got)
	}
	if !strings.Contains(got, "float x") {
		t.Errorf("RewriteForPrecision(32) = %q, want float64->float", got)
	}
	if !strings.Contains(got, "1.5f") || !strings.Contains(got, "2.0f") {
		t.Errorf("RewriteForPrecision(32) = %q, want every bare literal suffixed with f", got)
	}
}

func TestRewriteForPrecision64(t *testing.T) {
	src := []byte("float32 x = mat32.Sqrt(4.0);")
	got := string(RewriteForPrecision(src, netspec.Precision64))
	if strings.Contains(got, "float32") {
		t.Errorf("RewriteForPrecision(64) left float32: %q", got)
	}
	if !strings.Contains(got, "double x") {
		t.Errorf("RewriteForPrecision(64) = %q, want float32->double", got)
	}
	if !strings.Contains(got, "sqrt(") {
		t.Errorf("RewriteForPrecision(64) = %q, want mat32.Sqrt->sqrt", got)
	}
}
