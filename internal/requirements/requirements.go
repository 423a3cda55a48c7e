// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package requirements holds the pure, fragment-scanning inspectors of
// spec.md 4.3: predicates over code-fragment text and small neighbor
// summaries, with no knowledge of the spec's group/graph types. Keeping
// these as free functions over primitive inputs (strings, bool/flag
// summaries already gathered by the caller) rather than over the group
// types themselves means this package stays a leaf the model/netspec
// layering can call into without an import cycle -- netspec does the
// "walk the neighbors" part and hands the resulting fragment lists here
// for the "scan the fragments" part, the same division of labor the
// teacher's extract.go uses: walk the line buffer, hand matched regions
// to a dumb byte-slice scanner.
package requirements

import (
	"bytes"

	"golang.org/x/exp/slices"
)

// EventCondition is one spike-like-event condition contributed by an
// outgoing weight-update model, paired with the support namespace
// (typically the owning synapse group's name) that the merging engine
// must also compare -- two groups are only update-mergeable if their
// full multisets of (code, namespace) pairs match.
type EventCondition struct {
	Code      string
	Namespace string
}

// QueueRequiredMask scans outgoing and incoming weight-update code
// fragments for, respectively, the literal substrings
// varNames[i]+"_pre" and varNames[i]+"_post", returning a bitmask with
// bit i set whenever either substring is found anywhere in the
// corresponding fragment list. This is P3 verbatim.
func QueueRequiredMask(varNames []string, outgoingFragments, incomingFragments []string) uint64 {
	var mask uint64
	for i, name := range varNames {
		if i >= 64 {
			break // mask is a uint64; groups with >64 variables are not supported
		}
		pre := []byte(name + "_pre")
		post := []byte(name + "_post")
		for _, f := range outgoingFragments {
			if bytes.Contains([]byte(f), pre) {
				mask |= 1 << uint(i)
				break
			}
		}
		if mask&(1<<uint(i)) != 0 {
			continue
		}
		for _, f := range incomingFragments {
			if bytes.Contains([]byte(f), post) {
				mask |= 1 << uint(i)
				break
			}
		}
	}
	return mask
}

// SpikeTimeRequired reports whether a neuron group must keep a
// delay-expanded spike-time array: true iff any incoming synapse group's
// weight-update model declares post-spike-time required, or any
// outgoing one declares pre-spike-time required.
func SpikeTimeRequired(anyIncomingPostSpikeTime, anyOutgoingPreSpikeTime bool) bool {
	return anyIncomingPostSpikeTime || anyOutgoingPreSpikeTime
}

// TrueSpikesRequired reports whether a neuron group must register true
// (thresholded) spikes: true iff any outgoing synapse group declares it
// needs true spikes, or any incoming one has non-empty post-learning
// code (which fires in response to a postsynaptic true spike).
func TrueSpikesRequired(anyOutgoingDeclaresTrueSpikes, anyIncomingHasPostLearningCode bool) bool {
	return anyOutgoingDeclaresTrueSpikes || anyIncomingHasPostLearningCode
}

// SpikeEventRequired reports whether a neuron group must register
// spike-like events: true iff any outgoing synapse group declares
// spike-event semantics.
func SpikeEventRequired(anyOutgoingDeclaresSpikeEvent bool) bool {
	return anyOutgoingDeclaresSpikeEvent
}

// ContainsSentinel reports whether code contains any of the given RNG
// placeholder sentinel names as a $(name substring -- the recognition
// rule for "this fragment draws from the per-element RNG stream".
func ContainsSentinel(code string, sentinels []string) bool {
	b := []byte(code)
	for _, s := range sentinels {
		if bytes.Contains(b, []byte("$("+s)) {
			return true
		}
	}
	return false
}

// InitRNGRequired reports whether any initialization-time fragment
// (variable/connectivity initializers) references an RNG sentinel.
func InitRNGRequired(fragments []string, sentinels []string) bool {
	for _, f := range fragments {
		if ContainsSentinel(f, sentinels) {
			return true
		}
	}
	return false
}

// SimRNGRequired reports whether any simulation-time fragment (sim code,
// event code, current-source injection code, postsynaptic apply/decay
// code simulated inside the neuron kernel) references an RNG sentinel.
func SimRNGRequired(fragments []string, sentinels []string) bool {
	return InitRNGRequired(fragments, sentinels) // identical scan, different fragment set
}

// EventConditionSetsEqual reports whether two spike-like-event condition
// multisets are equal under reordering -- the equality GeNN-style
// update-merging needs for the "identical spikeEventCondition set (as
// multiset of (code, supportNamespace))" clause of spec.md 4.4.
func EventConditionSetsEqual(a, b []EventCondition) bool {
	if len(a) != len(b) {
		return false
	}
	remaining := slices.Clone(b)
	for _, ca := range a {
		i := slices.IndexFunc(remaining, func(cb EventCondition) bool {
			return ca.Code == cb.Code && ca.Namespace == cb.Namespace
		})
		if i < 0 {
			return false
		}
		remaining = slices.Delete(remaining, i, i+1)
	}
	return true
}
