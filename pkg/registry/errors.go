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
	"errors"
	"fmt"
)

// UnknownHandleError reports a lookup or unregistration miss. It is the
// one recoverable registry failure: the hooks layer translates it into
// an invalid-handle result at the call boundary.
type UnknownHandleError struct {
	Key Key
	// Destroyed is true when the handle was tracked before and has been
	// unregistered recently, which usually means the application used a
	// handle after destroying it (or its parent).
	Destroyed bool
}

func (e *UnknownHandleError) Error() string {
	if e.Destroyed {
		return fmt.Sprintf("encountered destroyed %s", e.Key)
	}

	return fmt.Sprintf("encountered unknown %s", e.Key)
}

// DuplicateHandleError reports that two successful creation calls
// resolved to the same key. This breaks the registry's own invariant and
// indicates a bug in the validation layer, not in the tested runtime; it
// is fatal for the validator process.
type DuplicateHandleError struct {
	Key Key
}

func (e *DuplicateHandleError) Error() string {
	return fmt.Sprintf("encountered duplicate %s", e.Key)
}

// IsUnknownHandle reports whether err is an UnknownHandleError.
func IsUnknownHandle(err error) bool {
	var unknown *UnknownHandleError

	return errors.As(err, &unknown)
}
