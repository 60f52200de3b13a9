// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"net"
	"strings"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// StartDNSServer starts a DNS server on a free UDP port on 127.0.0.1,
// answering from the specified resource records in zone file format, such as
// "foo.example. 60 IN A 192.0.2.1". Unknown names get NXDOMAIN. The server
// gets shut down automatically after the current spec. StartDNSServer returns
// the "host:port" address of the server.
func StartDNSServer(records ...string) string {
	GinkgoHelper()
	zone := map[string][]dns.RR{}
	for _, record := range records {
		rr := Successful(dns.NewRR(record))
		name := strings.ToLower(rr.Header().Name)
		zone[name] = append(zone[name], rr)
	}
	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, req *dns.Msg) {
		m := &dns.Msg{}
		m.SetReply(req)
		q := req.Question[0]
		rrs, ok := zone[strings.ToLower(q.Name)]
		if !ok {
			m.Rcode = dns.RcodeNameError
		}
		for _, rr := range rrs {
			if rr.Header().Rrtype == q.Qtype {
				m.Answer = append(m.Answer, rr)
			}
		}
		_ = w.WriteMsg(m)
	})
	pc := Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		Handler:           mux,
		NotifyStartedFunc: func() { close(started) },
	}
	go func() { _ = srv.ActivateAndServe() }()
	Eventually(started).Should(BeClosed())
	DeferCleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}
