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

package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/config"
)

var _ = Describe("Config", func() {
	It("parses a YAML document over the defaults", func() {
		cfg, err := config.Parse([]byte(`
logLevel: debug
metricsAddress: ":9090"
headlessExtension: true
`))
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.LogLevel).To(Equal("debug"))
		Expect(cfg.LogFormat).To(Equal("console"))
		Expect(cfg.MetricsAddress).To(Equal(":9090"))
		Expect(cfg.HeadlessExtension).To(BeTrue())
	})

	It("rejects malformed YAML", func() {
		_, err := config.Parse([]byte("logLevel: [unterminated"))
		Expect(err).To(HaveOccurred())
	})

	It("falls back to defaults when the file does not exist", func() {
		cfg, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	It("loads a config file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "layer.yaml")
		Expect(os.WriteFile(path, []byte("findingsPath: findings.jsonl\n"), 0o644)).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.FindingsPath).To(Equal("findings.jsonl"))
	})

	It("lets the environment override the file", func() {
		GinkgoT().Setenv(config.EnvLogLevel, "error")
		GinkgoT().Setenv(config.EnvFindingsPath, "/tmp/override.jsonl")

		cfg, err := config.Parse([]byte("logLevel: debug\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.LogLevel).To(Equal("error"))
		Expect(cfg.FindingsPath).To(Equal("/tmp/override.jsonl"))
	})

	It("clones without sharing state", func() {
		cfg := config.Default()
		cfg.MetricsAddress = ":8080"

		clone, err := cfg.Clone()
		Expect(err).ToNot(HaveOccurred())
		Expect(clone).To(Equal(cfg))

		clone.MetricsAddress = ":9999"
		Expect(cfg.MetricsAddress).To(Equal(":8080"))
	})
})
