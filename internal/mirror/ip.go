package mirror

import (
	"fmt"
	"net"

	"LocalFlipbook/internal/logging"
)

// OutgoingIP finds the address other hosts on the LAN should use to reach
// this one. No packet is sent.
func OutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Offline networks still have interface addresses.
		return localIP()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

func localIP() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	logging.Logger().Warn("no LAN address found, share link uses loopback")
	return "127.0.0.1", nil
}

// ShareURL is the websocket address viewers connect to.
func ShareURL(ip string, port int) string {
	return fmt.Sprintf("ws://%s/mirror", net.JoinHostPort(ip, fmt.Sprint(port)))
}
