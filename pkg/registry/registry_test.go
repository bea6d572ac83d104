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

package registry_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/registry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

var _ = Describe("Registry", func() {
	var reg *registry.Registry

	BeforeEach(func() {
		reg = registry.New()
	})

	Describe("Register and Lookup", func() {
		It("resolves a registered handle", func() {
			node := registry.NewState(1, xr.ObjectTypeInstance)
			Expect(reg.Register(node)).To(Succeed())

			got, err := reg.Lookup(registry.Key{Value: 1, Type: xr.ObjectTypeInstance})
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(BeIdenticalTo(node))
		})

		It("misses an unknown handle", func() {
			_, err := reg.Lookup(registry.Key{Value: 99, Type: xr.ObjectTypeSession})
			Expect(err).To(HaveOccurred())
			Expect(registry.IsUnknownHandle(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("unknown"))
		})

		It("tracks the same value under two object types independently", func() {
			Expect(reg.Register(registry.NewState(7, xr.ObjectTypeSession))).To(Succeed())
			Expect(reg.Register(registry.NewState(7, xr.ObjectTypeSwapchain))).To(Succeed())

			_, err := reg.Lookup(registry.Key{Value: 7, Type: xr.ObjectTypeSession})
			Expect(err).ToNot(HaveOccurred())
			_, err = reg.Lookup(registry.Key{Value: 7, Type: xr.ObjectTypeSwapchain})
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a duplicate key", func() {
			Expect(reg.Register(registry.NewState(1, xr.ObjectTypeInstance))).To(Succeed())

			err := reg.Register(registry.NewState(1, xr.ObjectTypeInstance))
			Expect(err).To(HaveOccurred())

			var dup *registry.DuplicateHandleError
			Expect(err).To(BeAssignableToTypeOf(dup))
		})
	})

	Describe("Unregister", func() {
		It("removes the node and all descendants depth-first", func() {
			instance := registry.NewState(1, xr.ObjectTypeInstance)
			Expect(reg.Register(instance)).To(Succeed())

			sess := instance.CloneForChild(2, xr.ObjectTypeSession)
			Expect(reg.Register(sess)).To(Succeed())

			Expect(reg.Register(sess.CloneForChild(3, xr.ObjectTypeSwapchain))).To(Succeed())
			Expect(reg.Register(sess.CloneForChild(4, xr.ObjectTypeSpace))).To(Succeed())
			Expect(reg.Len()).To(Equal(4))

			Expect(reg.Unregister(registry.Key{Value: 2, Type: xr.ObjectTypeSession})).To(Succeed())
			Expect(reg.Len()).To(Equal(1))

			_, err := reg.Lookup(registry.Key{Value: 3, Type: xr.ObjectTypeSwapchain})
			Expect(registry.IsUnknownHandle(err)).To(BeTrue())
			_, err = reg.Lookup(registry.Key{Value: 4, Type: xr.ObjectTypeSpace})
			Expect(registry.IsUnknownHandle(err)).To(BeTrue())
		})

		It("detaches the node from its parent", func() {
			instance := registry.NewState(1, xr.ObjectTypeInstance)
			Expect(reg.Register(instance)).To(Succeed())
			Expect(reg.Register(instance.CloneForChild(2, xr.ObjectTypeSession))).To(Succeed())

			Expect(reg.Unregister(registry.Key{Value: 2, Type: xr.ObjectTypeSession})).To(Succeed())
			Expect(instance.ChildKeys()).To(BeEmpty())
		})

		It("distinguishes a destroyed handle from a never-seen one", func() {
			node := registry.NewState(5, xr.ObjectTypeAction)
			Expect(reg.Register(node)).To(Succeed())
			Expect(reg.Unregister(node.Key())).To(Succeed())

			_, err := reg.Lookup(node.Key())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("destroyed"))
		})
	})

	Describe("Children", func() {
		It("filters live children by object type", func() {
			instance := registry.NewState(1, xr.ObjectTypeInstance)
			Expect(reg.Register(instance)).To(Succeed())
			Expect(reg.Register(instance.CloneForChild(2, xr.ObjectTypeSession))).To(Succeed())
			Expect(reg.Register(instance.CloneForChild(3, xr.ObjectTypeActionSet))).To(Succeed())

			sessions, err := reg.Children(instance.Key(), xr.ObjectTypeSession)
			Expect(err).ToNot(HaveOccurred())
			Expect(sessions).To(HaveLen(1))
			Expect(sessions[0].Key().Value).To(Equal(xr.Handle(2)))

			all, err := reg.Children(instance.Key(), xr.ObjectTypeUnknown)
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("concurrent use", func() {
		It("keeps the tree consistent under parallel register and destroy", func() {
			instance := registry.NewState(1, xr.ObjectTypeInstance)
			Expect(reg.Register(instance)).To(Succeed())

			var wg sync.WaitGroup

			for i := 0; i < 32; i++ {
				i := i

				wg.Add(1)

				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					value := xr.Handle(100 + i)
					sess := instance.CloneForChild(value, xr.ObjectTypeSession)
					Expect(reg.Register(sess)).To(Succeed())
					Expect(reg.Register(sess.CloneForChild(value+1000, xr.ObjectTypeSwapchain))).To(Succeed())
					Expect(reg.Unregister(sess.Key())).To(Succeed())
				}()
			}

			wg.Wait()

			Expect(reg.Len()).To(Equal(1))
			Expect(instance.ChildKeys()).To(BeEmpty())
		})
	})
})
