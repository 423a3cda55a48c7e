// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netspec

// ScalarPrecision is the active device floating-point precision for a
// spec's variables, parameters, and emitted literals.
type ScalarPrecision int

const (
	Precision32 ScalarPrecision = iota
	Precision64
)

// VarLocation names where a variable's storage lives relative to the
// accelerator: host only, device only, both, or a unified/zero-copy
// mapping visible to both without an explicit transfer.
type VarLocation int

const (
	Host VarLocation = iota
	Device
	HostAndDevice
	ZeroCopyHostDevice
)

// MatrixType names a synapse group's connectivity storage class.
type MatrixType int

const (
	Dense MatrixType = iota
	SparseIndividual
	SparseGlobalWeight
	BitmaskGlobalWeight
	Procedural
	Kernel
)

// IsSparse reports whether the matrix class materializes row/column
// connectivity via a SparseConnectivityInit snippet.
func (m MatrixType) IsSparse() bool {
	return m == SparseIndividual || m == SparseGlobalWeight || m == BitmaskGlobalWeight
}

// HasIndividualVars reports whether the matrix class stores one set of
// weight-update variables per synapse (as opposed to a single shared
// constant/global value, or a kernel-resident value).
func (m MatrixType) HasIndividualVars() bool {
	return m == Dense || m == SparseIndividual
}
