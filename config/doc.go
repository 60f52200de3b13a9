/*
Package config loads the inetaddr configuration from YAML or JSON, using
[koanf].

	resolver:
	  server: 127.0.0.53:53
	  workers: 4
	  timeout: 2s
	  cache:
	    size: 512
	    ttl: 2s
	  loopback: system   # or ipv4, ipv6
	ping:
	  count: 3
	  interval: 1s
	  threshold: 50
	  unprivileged: false
	  timeout: 5s
	netns: /proc/1/ns/net

[koanf]: https://github.com/knadh/koanf
*/
package config
