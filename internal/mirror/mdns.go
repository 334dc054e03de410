package mirror

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/mdns"

	"LocalFlipbook/internal/errors"
)

// ServiceType is the mDNS service viewers browse for.
const ServiceType = "_flipbook._tcp"

// Advertise announces the mirror on port over mDNS. Shut the returned
// server down to withdraw the announcement.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, errors.New("mirror.Advertise", errors.KindIO, fmt.Errorf("hostname: %w", err))
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"LocalFlipbook"})
	if err != nil {
		return nil, errors.New("mirror.Advertise", errors.KindIO, err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.New("mirror.Advertise", errors.KindIO, err)
	}
	return server, nil
}

// Browse reports every mirror found on the network as host:port until the
// lookup times out.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)))
		}
	}()
	err := mdns.Lookup(ServiceType, entries)
	close(entries)
	<-done
	if err != nil {
		return errors.New("mirror.Browse", errors.KindIO, err)
	}
	return nil
}
