package progress

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Path is where the hub is mounted.
const Path = "/progress"

// Serve listens on addr and streams hub events on Path until ctx is done.
// It returns the bound address, which differs from addr when addr uses port 0.
func Serve(ctx context.Context, addr string, h *Hub) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("[Progress] server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("url", URL(ln.Addr().String())).Msg("[Progress] streaming")
	return ln.Addr(), nil
}

// URL returns the websocket URL for a hub served on addr.
func URL(addr string) string {
	return "ws://" + addr + Path
}
