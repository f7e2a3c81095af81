package session

import (
	"errors"
	"fmt"
	"net"
)

var ErrNoLocalIP = errors.New("session: no routable local ip address found")

// FindLocalIP returns the first non-loopback IPv4 unicast address of an
// interface that is up. Server startup binds to this address; there is no
// meaningful fallback when discovery fails.
func FindLocalIP() (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("session: enumerate interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if v4 := ip.To4(); v4 != nil {
				return v4, nil
			}
		}
	}
	return nil, ErrNoLocalIP
}
