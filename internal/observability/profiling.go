package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/draft-board/internal/config"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
)

const mutexProfileRate = 5

// Profiling owns the optional pprof listener and pyroscope session.
// The zero value is a valid, inactive Profiling.
type Profiling struct {
	debug    *http.Server
	profiler *pyroscope.Profiler
	logger   *logging.Logger
}

// StartProfiling starts whichever of pprof and pyroscope cfg enables.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger.Named("profiling")}

	if cfg.PyroscopeEnabled {
		runtime.SetMutexProfileFraction(mutexProfileRate)
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName:   cfg.PyroscopeAppName,
			ServerAddress:     cfg.PyroscopeServerAddress,
			AuthToken:         cfg.PyroscopeAuthToken,
			BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
			BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
			UploadRate:        cfg.PyroscopeUploadRate,
			Tags: map[string]string{
				"env":     cfg.AppEnv,
				"service": cfg.ServiceName,
				"storage": cfg.StorageMode,
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
				pyroscope.ProfileMutexDuration,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("start pyroscope: %w", err)
		}
		p.profiler = profiler
		p.logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	}

	if cfg.PprofEnabled {
		p.debug = &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           pprofMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func(srv *http.Server) {
			p.logger.Info("pprof server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.logger.Error("pprof server failed", "error", err)
			}
		}(p.debug)
	}

	if p.debug == nil && p.profiler == nil {
		p.logger.Debug("profiling disabled")
	}
	return p, nil
}

// Active reports whether anything was started.
func (p *Profiling) Active() bool {
	return p != nil && (p.debug != nil || p.profiler != nil)
}

// Stop shuts down the pprof listener and flushes pyroscope.
func (p *Profiling) Stop(ctx context.Context) error {
	if !p.Active() {
		return nil
	}

	var errs []error
	if p.debug != nil {
		if err := p.debug.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop pprof: %w", err))
		}
	}
	if p.profiler != nil {
		if err := p.profiler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
	}
	p.logger.Info("profiling stopped")
	return errors.Join(errs...)
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	return mux
}

// WithProfileLabels runs fn with pyroscope labels attached to its samples.
// Labels cost nothing when no profiler is running.
func WithProfileLabels(ctx context.Context, fn func(context.Context), keyValues ...string) {
	pyroscope.TagWrapper(ctx, pyroscope.Labels(keyValues...), fn)
}
