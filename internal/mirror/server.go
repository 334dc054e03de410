package mirror

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/mdns"

	"LocalFlipbook/internal/config"
	"LocalFlipbook/internal/errors"
	"LocalFlipbook/internal/logging"
)

// Mirror is a running mirror: the hub, its HTTP listener and the optional
// mDNS announcement.
type Mirror struct {
	*Hub
	URL string

	srv  *http.Server
	mdns *mdns.Server
}

// Handler routes /mirror to the websocket hub and /frame.png to the latest
// frame.
func Handler(h *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mirror", h)
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) {
		frame := h.Latest()
		if frame == nil {
			http.Error(w, "no frame yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(frame)
	})
	return mux
}

// Start listens on cfg.Port and serves the hub until Close.
func Start(cfg config.Mirror) (*Mirror, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, errors.New("mirror.Start", errors.KindIO, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	hub := NewHub()
	m := &Mirror{
		Hub: hub,
		srv: &http.Server{Handler: Handler(hub), ReadHeaderTimeout: 10 * time.Second},
	}
	ip, err := OutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	m.URL = ShareURL(ip, port)

	go func() {
		if err := m.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Logger().Error("mirror server stopped", "error", err)
		}
	}()

	if cfg.Advertise {
		if m.mdns, err = Advertise(port); err != nil {
			logging.Logger().Warn("mDNS advertisement failed", "error", err)
		}
	}
	logging.Logger().Info("mirror listening", "url", m.URL, "advertised", m.mdns != nil)
	return m, nil
}

// Close disconnects viewers and stops serving.
func (m *Mirror) Close() error {
	m.Hub.Close()
	if m.mdns != nil {
		m.mdns.Shutdown()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}
