package main

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
)

// nodeID returns the first usable MAC address as a 48-bit integer. When no
// interface exposes one, a random node id with the multicast bit set is
// used, so it can never collide with a real MAC.
func nodeID() uint64 {
	ifs, err := net.Interfaces()
	if err == nil {
		for _, it := range ifs {
			if it.Flags&net.FlagLoopback != 0 || len(it.HardwareAddr) < 6 {
				continue
			}
			var n uint64
			for _, b := range it.HardwareAddr[:6] {
				n = n<<8 | uint64(b)
			}
			if n != 0 {
				return n
			}
		}
	}
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	b[0] |= 0x01
	var n uint64
	for _, x := range b {
		n = n<<8 | uint64(x)
	}
	return n
}

// fingerprint builds the device HWID: MAC node id and host name joined by
// a fixed delimiter. Stable per machine, collision-resistant in practice.
func fingerprint() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%d-%s", nodeID(), host)
}
