// Copyright (c) 2022, The Goki Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fieldlayout

import "testing"

func TestCheckEmpty(t *testing.T) {
	ok, size := Check(nil)
	if !ok || size != 0 {
		t.Errorf("Check(nil) = %v, %d, want true, 0", ok, size)
	}
}

func TestCheckAligned(t *testing.T) {
	// four float32 fields pack to 16 bytes exactly.
	fields := []Field{
		{Name: "a", Kind: Float32},
		{Name: "b", Kind: Float32},
		{Name: "c", Kind: Float32},
		{Name: "d", Kind: Float32},
	}
	ok, size := Check(fields)
	if !ok || size != 16 {
		t.Errorf("Check(4 fields) = %v, %d, want true, 16", ok, size)
	}
}

func TestCheckMisaligned(t *testing.T) {
	// three 32 bit fields pack to 12 bytes, not a multiple of 16.
	fields := []Field{
		{Name: "a", Kind: Float32},
		{Name: "b", Kind: Int32},
		{Name: "c", Kind: Uint32},
	}
	ok, size := Check(fields)
	if ok || size != 12 {
		t.Errorf("Check(3 fields) = %v, %d, want false, 12", ok, size)
	}
	if msg := Describe("MyGroup", fields, size); msg == "" {
		t.Error("Describe returned empty diagnostic")
	}
}
