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

// Package registry tracks every live handle the runtime has issued to
// the application, as a concurrent hierarchical map of handle-state
// nodes. It is purely reactive: nodes are created right after a
// forwarded creation call succeeds and removed right before a forwarded
// destruction call returns success.
package registry

import (
	"sync"
	"time"

	"github.com/united-manufacturing-hub/expiremap/v2/pkg/expiremap"
	"go.uber.org/zap"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/logger"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

const (
	tombstoneCullInterval = time.Minute
	tombstoneTTL          = 5 * time.Minute
)

// Registry is the process-wide handle tracker. One mutex guards the map
// itself; each node separately guards only its own children list. The
// map lock may be held while taking a node lock, never the reverse.
type Registry struct {
	mu    sync.Mutex
	nodes map[Key]*State

	// tombstones remembers recently unregistered keys so a miss can be
	// attributed to use-after-destroy rather than a never-seen handle.
	// Best effort: entries expire, and a miss after expiry simply reads
	// as unknown.
	tombstones *expiremap.ExpireMap[Key, time.Time]

	log *zap.SugaredLogger
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		nodes:      make(map[Key]*State),
		tombstones: expiremap.NewEx[Key, time.Time](tombstoneCullInterval, tombstoneTTL),
		log:        logger.For(logger.ComponentRegistry),
	}
}

// Register inserts a node. It fails with a DuplicateHandleError when the
// key is already live, which means the layer's own bookkeeping is broken.
func (r *Registry) Register(node *State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := node.Key()
	if _, exists := r.nodes[key]; exists {
		return &DuplicateHandleError{Key: key}
	}

	r.nodes[key] = node
	metrics.HandleRegistered(key.Type.String())
	r.log.Debugf("Registered %s", key)

	return nil
}

// Lookup resolves a key to its live node.
func (r *Registry) Lookup(key Key) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[key]
	if !ok {
		return nil, r.missLocked(key)
	}

	return node, nil
}

// Unregister removes a node and, depth-first, every descendant before
// it. The map lock is held for the whole recursive operation so no
// concurrent lookup can observe a half-destroyed subtree.
func (r *Registry) Unregister(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.unregisterLocked(key)
}

func (r *Registry) unregisterLocked(key Key) error {
	node, ok := r.nodes[key]
	if !ok {
		return r.missLocked(key)
	}

	// Unregistering a child removes it from this node's children list,
	// so keep taking the head until the list drains.
	for {
		childKey, ok := node.firstChild()
		if !ok {
			break
		}

		if err := r.unregisterLocked(childKey); err != nil {
			return err
		}
	}

	// The root object has no parent.
	if node.parent != nil {
		node.parent.removeChild(key)
	}

	delete(r.nodes, key)
	r.tombstones.Set(key, time.Now())
	metrics.HandleUnregistered(key.Type.String())
	r.log.Debugf("Unregistered %s", key)

	return nil
}

// Children resolves the live child nodes of a key, optionally filtered
// by object type (ObjectTypeUnknown matches all).
func (r *Registry) Children(key Key, childType xr.ObjectType) ([]*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[key]
	if !ok {
		return nil, r.missLocked(key)
	}

	var out []*State

	for _, childKey := range node.ChildKeys() {
		if childType != xr.ObjectTypeUnknown && childKey.Type != childType {
			continue
		}

		if child, ok := r.nodes[childKey]; ok {
			out = append(out, child)
		}
	}

	return out, nil
}

// Len returns the number of live nodes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.nodes)
}

func (r *Registry) missLocked(key Key) error {
	_, destroyed := r.tombstones.Load(key)

	return &UnknownHandleError{Key: key, Destroyed: destroyed}
}
