// Copyright 2025 The Runtime Validation Layer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package validation holds the argument-level checks shared by the
// per-object validators: the structure-chain mutation guard and the
// primitive value validators.
package validation

import (
	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

type chainLink struct {
	typ  xr.StructureType
	next *xr.BaseStructure
}

// ChainGuard snapshots the type/next chain of a mutable struct argument
// before a call is forwarded and verifies it afterwards. The runtime may
// fill payloads of chained structures but must never relink, retype,
// lengthen or shorten the chain in place.
type ChainGuard struct {
	reporter  *conformance.Reporter
	function  string
	parameter string
	head      *xr.BaseStructure
	snapshot  []chainLink
}

// NewChainGuard captures the chain hanging off head. Call Check after
// the forwarded call returns. A nil head is legal and guards the empty
// chain.
func NewChainGuard(reporter *conformance.Reporter, function, parameter string, head *xr.BaseStructure) *ChainGuard {
	g := &ChainGuard{
		reporter:  reporter,
		function:  function,
		parameter: parameter,
		head:      head,
	}

	for s := head; s != nil; s = s.Next {
		g.snapshot = append(g.snapshot, chainLink{typ: s.Type, next: s.Next})
	}

	return g
}

// Check compares the live chain against the snapshot and reports a
// finding for every divergence.
func (g *ChainGuard) Check() {
	i := 0

	for s := g.head; s != nil; s = s.Next {
		if i >= len(g.snapshot) {
			g.reporter.Nonconformant(g.function, "Parameter %s next chain was lengthened", g.parameter)

			return
		}

		expected := g.snapshot[i]
		i++

		if expected.typ != s.Type {
			g.reporter.Nonconformant(g.function,
				"Struct 'type' modified for parameter %s or chained structure: %s became %s",
				g.parameter, expected.typ, s.Type)
		}

		if expected.next != s.Next {
			g.reporter.Nonconformant(g.function,
				"Struct 'next' chain modified for parameter %s or chained structure", g.parameter)
		}
	}

	if i < len(g.snapshot) {
		g.reporter.Nonconformant(g.function, "Parameter %s next chain was shortened", g.parameter)
	}
}
