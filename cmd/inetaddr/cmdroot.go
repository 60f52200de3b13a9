// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/siemens/inetaddr/config"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

// settings are the command line flag values not covered by the configuration.
type settings struct {
	indentation     uint
	spinnerInterval time.Duration
	ping            bool
	quick           bool
	reverse         bool
	only            []string
	debug           bool
}

func newRootCmd() (rootCmd *cobra.Command) {
	var (
		s          settings
		configPath string
		cfg        config.Config
	)
	// flag-backed configuration overrides, applied only when set.
	var (
		server       string
		workers      int
		timeout      time.Duration
		loopback     string
		unprivileged bool
		netns        string
	)
	rootCmd = &cobra.Command{
		Use:   "inetaddr [flags] name-or-address...",
		Short: "inetaddr resolves names and IP address literals, classifies, and optionally pings them",
		Long: "inetaddr resolves host names and strictly parses numeric IPv4/IPv6 literals,\n" +
			"shows their canonical forms and scopes, and optionally verifies their\n" +
			"reachability. An empty name \"\" stands for the loopback addresses.",
		Version: "0.9",
		Args:    cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if s.indentation > 80 {
				return fmt.Errorf("--indent width out of range [0..80]")
			}
			if s.spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			var err error
			cfg = config.Default()
			if configPath != "" {
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("server") {
				cfg.Resolver.Server = server
			}
			if flags.Changed("workers") {
				cfg.Resolver.Workers = workers
			}
			if flags.Changed("timeout") {
				cfg.Resolver.Timeout = timeout
			}
			if flags.Changed("loopback") {
				cfg.Resolver.Loopback = loopback
			}
			if flags.Changed("unprivileged") {
				cfg.Ping.Unprivileged = unprivileged
			}
			if flags.Changed("netns") {
				cfg.Netns = netns
			}
			if cfg.Resolver.Workers > 10 {
				return fmt.Errorf("--workers out of range [1..10]")
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return DigAndReport(ctx, cmd.OutOrStdout(), cfg, s, args)
		},
	}
	// Sets up the flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML or JSON configuration file")
	pf.BoolVar(&s.debug, "debug", false, "enable debugging output")
	pf.UintVar(&s.indentation, "indent", 3, "indentation width")
	pf.DurationVar(&s.spinnerInterval, "spinner", 100*time.Millisecond, "spinner interval")
	pf.StringVar(&server, "server", config.Default().Resolver.Server, "DNS server address")
	pf.IntVar(&workers, "workers", config.Default().Resolver.Workers, "number of DNS and ping workers")
	pf.DurationVar(&timeout, "timeout", config.Default().Resolver.Timeout, "DNS query timeout")
	pf.StringVar(&loopback, "loopback", config.Default().Resolver.Loopback,
		"loopback family for the empty name: system, ipv4, or ipv6")
	pf.BoolVar(&s.ping, "ping", false, "verify reachability by pinging the addresses")
	pf.BoolVar(&s.quick, "quick", false,
		"with --ping, probe each address only until its first reply, within the ping timeout")
	pf.BoolVar(&unprivileged, "unprivileged", false, "use unprivileged UDP pings instead of ICMP")
	pf.StringVar(&netns, "netns", "", "path of network namespace to resolve and ping from")
	pf.StringSliceVar(&s.only, "only", nil,
		"show only addresses within these prefixes, ranges (from-to), or addresses")
	pf.BoolVar(&s.reverse, "reverse", false, "reverse lookup the names of the addresses")
	return
}
