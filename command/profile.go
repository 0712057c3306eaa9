package command

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// StartPprofServer serves the runtime profiles while a long table command
// runs. It returns nil when the pprof flag is not set.
func StartPprofServer(cmd *cobra.Command, logger hclog.Logger) *http.Server {
	flag := cmd.Flag(PprofFlag)
	if flag == nil || !flag.Changed {
		return nil
	}

	address := cmd.Flag(PprofAddressFlag).Value.String()

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	for _, profile := range []string{"heap", "goroutine", "block", "mutex"} {
		mux.Handle("/debug/pprof/"+profile, pprof.Handler(profile))
	}

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger = logger.Named("pprof")

	go func() {
		logger.Info("pprof server started", "addr", address)

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server ListenAndServe", "err", err)
		}
	}()

	return srv
}

// StopPprofServer shuts the server down, srv may be nil
func StopPprofServer(srv *http.Server) {
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
}
