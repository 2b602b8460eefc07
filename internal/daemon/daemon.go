// Package daemon runs the window manager control loop. It owns the X
// connection and is the only goroutine that touches the engine.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/hotkeys"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/runtimepath"
	"github.com/1broseidon/tagtile/internal/spawn"
	"github.com/1broseidon/tagtile/internal/wm"
	"github.com/1broseidon/tagtile/internal/x11"
)

// tickInterval paces kill escalation and child reaping.
const tickInterval = 250 * time.Millisecond

// Options configures Run.
type Options struct {
	// ConfigPath is watched and re-read on reload. Empty means the default
	// location.
	ConfigPath string
	// Config is the already loaded configuration.
	Config  *config.Config
	Version string
	Logger  *slog.Logger
}

// Daemon holds the live collaborators of one window manager session.
type Daemon struct {
	cfgPath string
	cfg     *config.Config
	logger  *slog.Logger

	conn    *x11.Connection
	backend *x11.Backend
	bar     *x11.Bar
	spawner *spawn.Spawner
	engine  *wm.Engine
	control *control
}

// Run connects to the display, takes over window management and serves X
// events, control socket requests, signals and config reloads until the
// window manager quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		return errors.New("daemon: no configuration")
	}
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	d := &Daemon{cfgPath: cfgPath, cfg: cfg, logger: logger}
	if err := d.start(); err != nil {
		d.shutdown()
		return err
	}
	d.control = newControl(d.engine, d.reload, opts.Version, time.Now())

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		d.shutdown()
		return fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	server := ipc.NewServer(socketPath, logger.With("component", "ipc"))
	if err := server.Start(); err != nil {
		d.shutdown()
		return err
	}
	defer server.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reloads, err := config.Watch(ctx, cfgPath, config.DefaultDebounce, logger)
	if err != nil {
		logger.Warn("config hot reload disabled", "path", cfgPath, "error", err)
	}

	logger.Info("tagtile started", "version", opts.Version, "config", cfgPath)
	d.loop(ctx, server.Calls(), reloads)
	logger.Info("shutting down")
	d.shutdown()
	return nil
}

func (d *Daemon) start() error {
	conn, err := x11.NewConnection(d.logger.With("component", "x11"))
	if err != nil {
		return err
	}
	d.conn = conn

	backend, err := x11.NewBackend(conn, d.cfg)
	if err != nil {
		return err
	}
	d.backend = backend

	bar, err := x11.NewBar(backend, d.cfg)
	if err != nil {
		return err
	}
	d.bar = bar

	d.spawner = spawn.New(d.logger.With("component", "spawn"))
	opts := wm.Options{
		Server:   backend,
		Drawer:   bar,
		Bindings: d.newBindings(d.cfg),
		Spawner:  d.spawner,
		Logger:   d.logger.With("component", "wm"),
	}
	if d.cfg.Systray.Enabled {
		opts.Tray = backend
	}
	engine, err := wm.New(d.cfg, opts)
	if err != nil {
		return err
	}
	d.engine = engine
	engine.Setup()
	return nil
}

func (d *Daemon) newBindings(cfg *config.Config) *hotkeys.Handler {
	return hotkeys.NewHandler(d.conn.XUtil, d.backend.Root(), cfg.Keys, cfg.Buttons,
		d.logger.With("component", "hotkeys"))
}

// loop multiplexes every event source onto this goroutine. X events are
// dispatched from a hook that only runs while the loop is parked between
// pingBefore and pingAfter.
func (d *Daemon) loop(ctx context.Context, calls <-chan *ipc.Call, reloads <-chan struct{}) {
	xu := d.conn.XUtil
	xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
		if xev, ok := ev.(xgb.Event); ok {
			d.engine.Dispatch(xev)
		}
		// The engine handles every event; skip xgbutil's callbacks.
		return false
	}).Connect(xu)
	pingBefore, pingAfter, pingQuit := xevent.MainPing(xu)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for d.engine.Running() {
		select {
		case <-pingBefore:
			<-pingAfter
		case <-pingQuit:
			return
		case call := <-calls:
			call.Reply(d.control.handle(call.Request))
		case <-reloads:
			if err := d.reload(); err != nil {
				d.logger.Error("config reload failed", "error", err)
			}
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				d.logger.Info("received SIGHUP, reloading config")
				if err := d.reload(); err != nil {
					d.logger.Error("config reload failed", "error", err)
				}
				continue
			}
			d.logger.Info("received signal", "signal", sig)
			d.engine.Quit()
		case <-ctx.Done():
			d.engine.Quit()
		case <-ticker.C:
			d.engine.Tick()
		}
		d.spawner.Reap()
	}
	xevent.Quit(xu)
}

// reload re-reads the config file and applies what can change without a
// restart. A file that fails validation leaves the running config alone.
func (d *Daemon) reload() error {
	res, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		return err
	}
	cfg := res.Config
	if err := d.backend.SetColors(cfg.Colors); err != nil {
		return fmt.Errorf("apply colors: %w", err)
	}
	if err := d.bar.SetColors(cfg.Colors); err != nil {
		return fmt.Errorf("apply bar colors: %w", err)
	}
	if err := d.engine.Reload(cfg, d.newBindings(cfg)); err != nil {
		return err
	}
	if cfg.Systray.Enabled != d.cfg.Systray.Enabled {
		d.logger.Warn("systray setting changes take effect after a restart")
	}
	d.cfg = cfg
	return nil
}

// shutdown hands every client back and releases the display.
func (d *Daemon) shutdown() {
	if d.engine != nil {
		d.engine.Cleanup()
	} else if d.bar != nil {
		d.bar.Close()
	}
	if d.backend != nil {
		d.backend.Cleanup()
	}
	if d.conn != nil {
		d.conn.Close()
	}
}
