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

// Package swapchain validates the image acquire/wait/release protocol:
// every image runs its own small machine, and acquired indices form a
// queue that wait and release must consume in order.
package swapchain

import (
	"sync"

	"github.com/looplab/fsm"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

const (
	imageCreated  = "created"
	imageAcquired = "acquired"
	imageWaited   = "waited"
	imageReleased = "released"
)

const (
	eventAcquire = "acquire"
	eventWait    = "wait"
	eventRelease = "release"
)

// newImageFSM builds the machine of a single image. A released image
// may only be acquired again when the swapchain is not static.
func newImageFSM(static bool) *fsm.FSM {
	acquireSrc := []string{imageCreated}
	if !static {
		acquireSrc = append(acquireSrc, imageReleased)
	}

	return fsm.NewFSM(imageCreated, fsm.Events{
		{Name: eventAcquire, Src: acquireSrc, Dst: imageAcquired},
		{Name: eventWait, Src: []string{imageAcquired}, Dst: imageWaited},
		{Name: eventRelease, Src: []string{imageWaited}, Dst: imageReleased},
	}, fsm.Callbacks{})
}

// State is the per-swapchain payload attached to the swapchain's
// handle-state node.
type State struct {
	mu sync.Mutex

	static bool

	// images is nil until the image count is known, either from the
	// application enumerating or from the layer enumerating on its
	// behalf at first acquire.
	images []*fsm.FSM

	// acquired is the queue of acquired image indices, in acquire
	// order. Wait operates on the head; release pops it.
	acquired []uint32
}

func newState(static bool) *State {
	return &State{static: static}
}

// ObjectType marks the payload as swapchain state.
func (s *State) ObjectType() xr.ObjectType {
	return xr.ObjectTypeSwapchain
}

// Static reports whether the swapchain was created with the
// static-image flag.
func (s *State) Static() bool {
	return s.static
}

// ImageCount returns the known image count, zero when not yet known.
func (s *State) ImageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.images)
}

// AcquiredQueue returns a snapshot of the acquired-index queue.
func (s *State) AcquiredQueue() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]uint32, len(s.acquired))
	copy(out, s.acquired)

	return out
}

func (s *State) ensureImagesLocked(count uint32) {
	if s.images != nil {
		return
	}

	s.images = make([]*fsm.FSM, count)
	for i := range s.images {
		s.images[i] = newImageFSM(s.static)
	}
}
