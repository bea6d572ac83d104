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

package registry

import (
	"fmt"
	"sync"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// Key identifies one live handle-state node: the opaque handle value
// plus the object-type tag. The same value may legally identify objects
// of two different types, so the tag is part of the key.
type Key struct {
	Value xr.Handle
	Type  xr.ObjectType
}

func (k Key) String() string {
	return fmt.Sprintf("%s handle with value 0x%x", k.Type, uint64(k.Value))
}

// CustomState is the per-object payload a type-specific validator
// attaches to a handle-state node right after registration. Exactly one
// variant exists per object category; ObjectType names the category the
// payload belongs to.
type CustomState interface {
	ObjectType() xr.ObjectType
}

// State is the tracked state of one live handle. The node owns its
// CustomState exclusively; parent and child references are non-owning
// and only used for traversal during recursive destruction. Children are
// held as keys and re-resolved through the registry, so a concurrently
// destroyed node can never be dereferenced mid-traversal.
type State struct {
	key    Key
	parent *State

	// mu guards children and custom. The registry map lock may be held
	// while taking mu, never the other way around.
	mu       sync.Mutex
	children []Key
	custom   CustomState
}

// NewState builds an unregistered root node (no parent). Non-root nodes
// are built with CloneForChild.
func NewState(value xr.Handle, objectType xr.ObjectType) *State {
	return &State{key: Key{Value: value, Type: objectType}}
}

// Key returns the node's identity.
func (s *State) Key() Key {
	return s.key
}

// Parent returns the parent node, nil for the root object.
func (s *State) Parent() *State {
	return s.parent
}

// CloneForChild builds a node for a freshly created child handle,
// records it in this node's children list and returns it. The clone
// starts with no custom state and no children of its own, and the caller
// must still register it.
func (s *State) CloneForChild(value xr.Handle, childType xr.ObjectType) *State {
	child := &State{
		key:    Key{Value: value, Type: childType},
		parent: s,
	}

	s.mu.Lock()
	s.children = append(s.children, child.key)
	s.mu.Unlock()

	return child
}

// AttachCustom hands the node exclusive ownership of its per-object
// payload. Called once by the type-specific creation hook.
func (s *State) AttachCustom(custom CustomState) {
	s.mu.Lock()
	s.custom = custom
	s.mu.Unlock()
}

// Custom returns the attached payload, nil if the creation hook has not
// attached one (spaces carry no custom state).
func (s *State) Custom() CustomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.custom
}

// ChildKeys returns a snapshot of the children list.
func (s *State) ChildKeys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Key, len(s.children))
	copy(out, s.children)

	return out
}

// firstChild returns the head of the children list, if any.
func (s *State) firstChild() (Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.children) == 0 {
		return Key{}, false
	}

	return s.children[0], true
}

// removeChild drops a key from the children list.
func (s *State) removeChild(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, k := range s.children {
		if k == key {
			s.children = append(s.children[:i], s.children[i+1:]...)

			return
		}
	}
}
