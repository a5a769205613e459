package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Parkreiner/namebingo"
	"github.com/Parkreiner/namebingo/config"
	"github.com/Parkreiner/namebingo/output"
	"github.com/Parkreiner/namebingo/pipeline"
	"github.com/Parkreiner/namebingo/render"
	"github.com/Parkreiner/namebingo/server"
	"github.com/Parkreiner/namebingo/shuffler"
	"github.com/Parkreiner/namebingo/supplier"
)

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var shuf *shuffler.Shuffler
	if cfg.Seed != nil {
		shuf = shuffler.NewSeeded(*cfg.Seed)
		logger.Debug("using seeded shuffle", zap.Uint64("seed", *cfg.Seed))
	}

	p, err := pipeline.New(pipeline.Init{
		Supplier: newSupplier(cfg),
		Spec:     cfg.Spec(),
		Filler:   cfg.FillerToken(),
		Center:   cfg.Center,
		Document: render.Options{Title: cfg.Title, Description: cfg.Description},
		Shuffler: shuf,
		Logger:   logger.Named("pipeline"),
	})
	if err != nil {
		return err
	}
	if err := p.Load(ctx); err != nil {
		return err
	}

	switch cfg.Mode() {
	case config.ModeServe:
		return serve(ctx, cfg, p, logger)
	case config.ModePreview:
		return preview(p, stdout)
	default:
		return writeCard(cfg, p, logger, stdout)
	}
}

func newSupplier(cfg config.Config) bingo.NameSupplier {
	switch {
	case cfg.File != "":
		return supplier.File{Path: cfg.File}
	case cfg.LDAP != "":
		return supplier.LDAP{
			URL:       cfg.LDAP,
			BindDN:    cfg.LDAPBindDN,
			Password:  cfg.LDAPPassword,
			Filter:    cfg.LDAPFilter,
			Attribute: cfg.LDAPAttribute,
		}
	case cfg.Command != "":
		return supplier.ShellCommand(cfg.Command)
	default:
		return supplier.Static{Names: bingo.Pool(cfg.Names)}
	}
}

func writeCard(cfg config.Config, p *pipeline.Pipeline, logger *zap.Logger, stdout io.Writer) error {
	var sink output.Sink
	if output.IsStdout(cfg.Output) {
		sink = output.NewStream(stdout, "stdout")
		if isTerminal(stdout) {
			logger.Info("writing HTML to a terminal, use --output or a redirect to save the card")
		}
	} else {
		fileSink, err := output.Open(cfg.Output)
		if err != nil {
			return err
		}
		sink = fileSink
	}

	card, err := p.Render(sink)
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			logger.Warn("failed to discard partial output", zap.String("output", sink.Name()), zap.Error(abortErr))
		}
		return err
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", sink.Name(), err)
	}

	logger.Info("card written", zap.Stringer("card", card.ID), zap.String("output", sink.Name()))
	return nil
}

func preview(p *pipeline.Pipeline, stdout io.Writer) error {
	text, _, err := p.Preview()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, text)
	return err
}

func serve(ctx context.Context, cfg config.Config, p *pipeline.Pipeline, logger *zap.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Watch {
		watcher, err := watchNames(gCtx, cfg.File, p, logger)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	srv := server.New(cfg.Listen, server.WithLogger(logger.Named("server")))
	g.Go(srv.Run(gCtx, server.NewHandler(p, logger.Named("http"))))

	return g.Wait()
}

// watchNames reloads p whenever the name file at path changes. A reload that
// fails leaves the previous pool in place.
func watchNames(ctx context.Context, path string, p *pipeline.Pipeline, logger *zap.Logger) (*supplier.Watcher, error) {
	watcher, err := supplier.NewWatcher(supplier.WatcherInit{
		Path: path,
		OnChange: func(ctx context.Context) {
			if err := p.Load(ctx); err != nil {
				logger.Warn("name file changed but could not be loaded, keeping the previous pool", zap.Error(err))
			}
		},
		Logger: logger.Named("watcher"),
	})
	if err != nil {
		return nil, err
	}
	if err := watcher.Start(ctx); err != nil {
		return nil, err
	}
	return watcher, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
