// Package netaddr picks the address other devices on the LAN should use to
// reach this server.
package netaddr

import (
	"fmt"
	"net"
	"strings"
)

// Interface is the subset of a network interface the selection needs.
type Interface struct {
	Name     string
	Loopback bool
	Up       bool
	Addrs    []net.IP
}

var (
	virtualPrefixes = []string{"docker", "veth", "br-", "vboxnet", "vmnet", "virbr", "vethernet", "utun", "tun", "tap", "zt", "tailscale", "wg"}
	virtualRanges   = mustCIDRs(
		"172.17.0.0/16",    // docker bridge
		"192.168.56.0/24",  // VirtualBox host-only
		"192.168.99.0/24",  // docker-machine
		"192.168.122.0/24", // libvirt
		"10.0.75.0/24",     // Hyper-V / Docker Desktop
	)
	preferredRange = mustCIDRs("192.168.0.0/16")
	privateRanges  = mustCIDRs("10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16")
)

func mustCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

func inAny(ip net.IP, nets []*net.IPNet) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func isVirtual(iface Interface) bool {
	name := strings.ToLower(iface.Name)
	for _, p := range virtualPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Select applies the preference order: override, preferred private address
// on a physical interface, any private address outside virtual-adapter
// ranges, any non-loopback IPv4, then "localhost".
func Select(override string, ifaces []Interface) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}

	type candidate struct {
		ip      net.IP
		virtual bool
	}
	var candidates []candidate
	for _, iface := range ifaces {
		if iface.Loopback || !iface.Up {
			continue
		}
		for _, ip := range iface.Addrs {
			ip4 := ip.To4()
			if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
				continue
			}
			candidates = append(candidates, candidate{ip: ip4, virtual: isVirtual(iface) || inAny(ip4, virtualRanges)})
		}
	}

	for _, c := range candidates {
		if !c.virtual && inAny(c.ip, preferredRange) {
			return c.ip.String()
		}
	}
	for _, c := range candidates {
		if !c.virtual && inAny(c.ip, privateRanges) {
			return c.ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].ip.String()
	}
	return "localhost"
}

// Interfaces lists the host's interfaces with their IP addresses.
func Interfaces() ([]Interface, error) {
	system, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	ifaces := make([]Interface, 0, len(system))
	for _, s := range system {
		iface := Interface{
			Name:     s.Name,
			Loopback: s.Flags&net.FlagLoopback != 0,
			Up:       s.Flags&net.FlagUp != 0,
		}
		addrs, err := s.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			switch v := a.(type) {
			case *net.IPNet:
				iface.Addrs = append(iface.Addrs, v.IP)
			case *net.IPAddr:
				iface.Addrs = append(iface.Addrs, v.IP)
			}
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}

// Detect is Select over the host's interfaces. Interface errors fall back to localhost.
func Detect(override string) string {
	if strings.TrimSpace(override) != "" {
		return Select(override, nil)
	}
	ifaces, err := Interfaces()
	if err != nil {
		return "localhost"
	}
	return Select("", ifaces)
}

// BaseURL formats the LAN base URL for a port, e.g. http://192.168.1.20:3000.
func BaseURL(host string, port int) string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(port)))
}
