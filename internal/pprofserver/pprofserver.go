// Package pprofserver exposes the runtime profiler on a separate, private listener.
package pprofserver

import (
	"context"
	"github.com/ceotarot/ceotarot/internal/errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Launch serves pprof on addr until ctx is done. Keep addr on a loopback interface so that it's not
// open to the world. Launch returns once the listener is bound.
func Launch(ctx context.Context, addr string, logger *slog.Logger) (net.Addr, error) {
	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{ //nolint:exhaustruct // profiles take long, no timeouts
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "pprof listen", slog.String("addr", addr))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", listener.Addr().String()))
	go func() {
		if serveErr := srv.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped",
				errors.SlogError(errors.Wrap(serveErr, "pprof serve")))
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	return listener.Addr(), nil
}
