// Command kvserver runs the RESP-compatible key-value engine: a TCP
// listener speaking the wire protocol, a read-only admin HTTP surface, the
// active-expire background cycle, and append-only persistence.
package main

import (
	"context"
	"flag"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/edirooss/kvstore/internal/aof"
	"github.com/edirooss/kvstore/internal/command"
	"github.com/edirooss/kvstore/internal/config"
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file (optional)")
	adminAddr := flag.String("admin-addr", "127.0.0.1:8080", "admin HTTP listen address")
	flag.Parse()

	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	cfg, err := config.NewStore(log, *configPath)
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *configPath != "" {
		if err := cfg.Watch(ctx, *configPath, 0); err != nil {
			log.Warn("config watch failed, continuing without live reload", zap.Error(err))
		}
	}

	aofPath := filepath.Join(cfg.Get().Dir, cfg.Get().AppendFilename)

	db := store.New(log, store.Options{
		Namespaces:      cfg.Get().Databases,
		MaxIntset:       cfg.Get().SetMaxIntsetEntries,
		ActiveRehashing: cfg.Get().ActiveRehashing,
		RenameCommands:  cfg.Get().RenameCommands,
	})
	ex := command.NewExecutor(log, db, cfg)

	if cfg.Get().AppendOnly {
		replayAOF(log, db, ex, aofPath)
	}

	aofWriter, err := aof.Open(log, aofPath, cfg.Get().AppendOnly)
	if err != nil {
		log.Fatal("aof open failed", zap.Error(err))
	}
	defer aofWriter.Close()
	db.SetAOF(aofWriter)

	respAddr := ":" + strconv.Itoa(cfg.Get().Port)
	srv, err := respio.Listen(log, respAddr)
	if err != nil {
		log.Fatal("resp listen failed", zap.Error(err))
	}
	log.Info("resp server listening", zap.String("addr", respAddr))

	admin := newAdminServer(log, db, *adminAddr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gctx, newConnHandler(ex))
	})

	g.Go(func() error {
		return admin.Run(gctx)
	})

	g.Go(func() error {
		return runActiveExpire(gctx, db)
	})

	<-gctx.Done()
	log.Info("shutting down")
	srv.Close()

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("server exited with error", zap.Error(err))
	}
}

// replayAOF re-executes every command previously appended to path against a
// freshly constructed, otherwise-empty db, restoring state from the last
// run before the engine starts accepting connections (spec §6/§8 startup
// restore). db.SetLoading suppresses expiration checks during replay the
// same way it does during a hypothetical RDB-style load.
func replayAOF(log *zap.Logger, db *store.Database, ex *command.Executor, path string) {
	cmds, err := aof.ReplayFile(path)
	if err != nil {
		log.Fatal("aof replay failed", zap.Error(err))
	}
	if len(cmds) == 0 {
		return
	}
	log.Info("replaying append-only file", zap.Int("commands", len(cmds)), zap.String("path", path))
	db.SetLoading(true)
	loader := command.NewClient(0, func(store.Reply) error { return nil })
	loader.Authenticated = true
	for _, args := range cmds {
		if len(args) == 0 {
			continue
		}
		ex.Execute(loader, args)
	}
	db.SetLoading(false)
}

// runActiveExpire drives the background sampling sweep (spec §4.K) on a
// fixed tick until ctx is canceled.
func runActiveExpire(ctx context.Context, db *store.Database) error {
	const (
		tick   = 100 * time.Millisecond
		budget = 25 * time.Millisecond
	)
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			db.ActiveExpireCycle(budget)
		}
	}
}

