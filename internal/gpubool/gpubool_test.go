// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpubool

import "testing"

func TestFromBool(t *testing.T) {
	if !FromBool(true).IsTrue() {
		t.Error("FromBool(true).IsTrue() = false")
	}
	if !FromBool(false).IsFalse() {
		t.Error("FromBool(false).IsFalse() = false")
	}
	if FromBool(true).IsFalse() {
		t.Error("FromBool(true).IsFalse() = true")
	}
	if True.IsTrue() == False.IsTrue() {
		t.Error("True and False must not both report the same IsTrue()")
	}
}
