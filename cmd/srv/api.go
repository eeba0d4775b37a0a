package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/nftmint/internal/middleware"
	"github.com/questx-lab/nftmint/pkg/prometheus"
	"github.com/questx-lab/nftmint/pkg/router"
	"github.com/questx-lab/nftmint/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadCollection()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:         cfg.ApiServer.Address(),
		Handler:      s.router.Handler(),
		ReadTimeout:  time.Duration(cfg.ApiServer.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.ApiServer.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", httpSrv.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx), xcontext.SnowFlake(s.ctx))
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Handle("/metrics", prometheus.NewHandler())

	signatureRouter := s.router.Branch()
	signatureRouter.Before(s.signatureDomain.VerifyConfiguration)
	{
		router.POST(signatureRouter, "/api/generate", s.signatureDomain.Generate)
	}

	collectionRouter := s.router.Branch()
	{
		router.GET(collectionRouter, "/api/tokens", s.collectionDomain.GetTokens)
	}

	issuanceRouter := s.router.Branch()
	{
		router.GET(issuanceRouter, "/api/vouchers", s.issuanceDomain.GetIssuances)
	}
}
