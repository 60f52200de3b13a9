// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/siemens/inetaddr/config"
	"github.com/siemens/inetaddr/resolver"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("configuration", func() {

	It("has sane defaults", func() {
		Expect(config.Default().Validate()).To(Succeed())
		Expect(config.Default().LoopbackPolicy()).To(Equal(resolver.PreferSystem))
	})

	It("returns defaults for empty data", func() {
		Expect(config.FromBytes(nil, config.YAML)).To(Equal(config.Default()))
	})

	It("loads YAML", func() {
		cfg := Successful(config.FromBytes([]byte(`
resolver:
  server: 127.0.0.53:53
  cache:
    ttl: 10s
  loopback: ipv6
ping:
  unprivileged: true
  ttl: 8
netns: /proc/1/ns/net
`), config.YAML))
		Expect(cfg.Resolver.Server).To(Equal("127.0.0.53:53"))
		Expect(cfg.Resolver.Workers).To(Equal(config.Default().Resolver.Workers))
		Expect(cfg.Resolver.Cache.TTL).To(Equal(10 * time.Second))
		Expect(cfg.Resolver.Cache.Size).To(Equal(resolver.DefaultCacheSize))
		Expect(cfg.LoopbackPolicy()).To(Equal(resolver.PreferIPv6))
		Expect(cfg.Ping.Unprivileged).To(BeTrue())
		Expect(cfg.Ping.TTL).To(Equal(uint8(8)))
		Expect(cfg.Netns).To(Equal("/proc/1/ns/net"))
	})

	It("loads JSON", func() {
		cfg := Successful(config.FromBytes([]byte(`{"resolver":{"workers":8},"ping":{"count":1}}`), config.JSON))
		Expect(cfg.Resolver.Workers).To(Equal(8))
		Expect(cfg.Ping.Count).To(Equal(uint(1)))
	})

	DescribeTable("rejects invalid configurations",
		func(data string, errmatch error) {
			Expect(config.FromBytes([]byte(data), config.YAML)).Error().To(MatchError(errmatch))
		},
		Entry("no server", "resolver: {server: ''}", config.ErrInvalid),
		Entry("no workers", "resolver: {workers: 0}", config.ErrInvalid),
		Entry("bad loopback", "resolver: {loopback: ipv5}", config.ErrInvalid),
		Entry("bad threshold", "ping: {threshold: 101}", config.ErrInvalid),
	)

	It("rejects malformed data and unknown formats", func() {
		Expect(config.FromBytes([]byte("resolver: ["), config.YAML)).Error().To(HaveOccurred())
		Expect(config.FromBytes(nil, config.Format("toml"))).Error().To(MatchError(config.ErrUnsupportedFormat))
	})

	It("loads from files", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "inetaddr.yml")
		Expect(os.WriteFile(path, []byte("resolver: {workers: 2}\n"), 0o644)).To(Succeed())
		Expect(config.Load(path)).To(HaveField("Resolver.Workers", 2))

		Expect(config.Load(filepath.Join(dir, "inetaddr.ini"))).Error().To(MatchError(config.ErrUnsupportedFormat))
		Expect(config.Load(filepath.Join(dir, "missing.json"))).Error().To(HaveOccurred())
	})

})
