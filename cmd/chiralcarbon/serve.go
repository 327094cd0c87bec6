package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/H1W0XXX/chiralcarbon/captcha"
	"github.com/H1W0XXX/chiralcarbon/config"
	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
)

const (
	purgeInterval   = time.Minute
	shutdownTimeout = 5 * time.Second
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the captcha HTTP server",
	Long: `Serve the challenge API (POST /api/challenge/start, POST /api/challenge/verify)
and the static front-end. Molecules come from an indexed SDF file or from
PubChem, as configured by source.kind.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func openSource(c *config.Config) (captcha.Source, error) {
	switch c.Source.Kind {
	case config.SourcePubChem:
		return newPubChemClient(c.PubChem), nil
	default:
		src, err := captcha.OpenIndexedSDF(c.Source.SDFPath, c.Source.IndexPath)
		if err != nil {
			return nil, errors.WithHint(err, "run `chiralcarbon index` or set source.kind = \"pubchem\"")
		}
		logger.Named("serve").Infow("sdf source ready", logger.FieldFile, c.Source.SDFPath, logger.FieldRecords, src.Len())
		return src, nil
	}
}

func openStore(c *config.Config) (captcha.Store, error) {
	if c.Store.Kind == config.StoreSQLite {
		return captcha.OpenSQLiteStore(c.Store.Path)
	}
	return captcha.NewMemoryStore(), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Named("serve")

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := captcha.NewService(src, store, captcha.Options{
		MinChiral: cfg.Captcha.MinChiral,
		Attempts:  cfg.Captcha.Attempts,
		MaxSize:   cfg.Captcha.MaxSize,
		TTL:       cfg.Captcha.TTL(),
	})

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           captcha.NewHandler(svc).Routes(cfg.Server.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server listening", logger.FieldAddress, addr, logger.FieldSource, cfg.Source.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Infow("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n, err := svc.Purge(gctx)
				if err != nil {
					log.Warnw("purge failed", logger.FieldError, err)
					continue
				}
				if n > 0 {
					log.Debugw("purged expired challenges", logger.FieldCount, n)
				}
			}
		}
	})
	return g.Wait()
}
