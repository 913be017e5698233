package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/config"
	"github.com/dm/halla-watch/internal/engine"
	"github.com/dm/halla-watch/internal/model"
	"github.com/dm/halla-watch/internal/notifier"
	"github.com/dm/halla-watch/internal/server"
	"github.com/dm/halla-watch/internal/tui"
)

type options struct {
	configPath string
	interval   time.Duration
	headless   bool
	addr       string
	logPath    string
}

// parseFlags parses command-line arguments. Positional arguments are rejected.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("halla", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "path to configuration file (YAML); defaults apply when missing")
	fs.DurationVar(&opts.interval, "interval", 0, "polling interval override (e.g. 10s, 30s)")
	fs.BoolVar(&opts.headless, "headless", false, "run without the terminal UI and serve state over HTTP")
	fs.StringVar(&opts.addr, "addr", ":8080", "listen address in headless mode")
	fs.StringVar(&opts.logPath, "log", "", "log file in TUI mode (default: no log)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: halla [--config config.yaml] [--interval 10s] [--headless [--addr :8080]] [--log halla.log]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.interval < 0 {
		return options{}, errors.New("--interval must be positive")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if opts.interval > 0 {
		cfg.Interval = opts.interval
	}

	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestTimeout,
		UserAgent:      "halla-watch",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	mon := engine.New(c, engine.Options{
		Courses:       cfg.Courses,
		Dates:         cfg.Dates,
		TimeSlot:      cfg.TimeSlot,
		Interval:      cfg.Interval,
		AlertCooldown: cfg.AlertCooldown,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.headless {
		err = runHeadless(ctx, mon, cfg, opts.addr)
	} else {
		err = runTUI(ctx, mon, cfg, opts.logPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func notifiers(cfg config.Config, logger *log.Logger, bell *notifier.BellNotifier) []notifier.Notifier {
	ns := []notifier.Notifier{notifier.LogNotifier{Logger: logger}, bell}
	if cfg.Email.Enabled {
		ns = append(ns, notifier.NewEmailNotifier(cfg.Email, cfg.ReserveURL))
	}
	return ns
}

func runTUI(ctx context.Context, mon *engine.Monitor, cfg config.Config, logPath string) error {
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "halla")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	logger := log.Default()

	d := notifier.NewDispatcher(logger, notifiers(cfg, logger, &notifier.BellNotifier{W: os.Stderr})...)
	app := tui.NewApp(ctx, mon, d, cfg.ReserveURL)
	defer app.Shutdown()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	drainNotifications(d, logger, notifyDrainTimeout)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runHeadless(ctx context.Context, mon *engine.Monitor, cfg config.Config, addr string) error {
	logger := log.New(os.Stderr, "halla ", log.LstdFlags)
	d := notifier.NewDispatcher(logger, notifiers(cfg, logger, &notifier.BellNotifier{W: io.Discard})...)

	hub := server.NewHub(cfg.Courses, cfg.Dates, logger)
	srv := server.New(addr, hub)

	go mon.Run(ctx, func(u model.Update) {
		hub.Publish(u)
		if u.Err != nil {
			logger.Printf("sweep failed: %v", u.Err)
			return
		}
		logger.Printf("sweep ok: %d/%d open", u.State.AvailableCount(), u.State.Len())
		// Notifications outlive the signal; drainNotifications bounds them.
		d.Dispatch(context.WithoutCancel(ctx), u.Alerts)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("server shutdown: %v", err)
		}
	}()

	logger.Printf("watching %d course(s) x %d date(s) every %s, listening on %s",
		len(cfg.Courses), len(cfg.Dates), cfg.Interval, addr)
	err := srv.Run()
	drainNotifications(d, logger, notifyDrainTimeout)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// notifyDrainTimeout bounds how long shutdown waits for pending notifications.
const notifyDrainTimeout = 10 * time.Second

func drainNotifications(d *notifier.Dispatcher, logger *log.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.Drain(ctx); err != nil {
		logger.Printf("pending notifications abandoned: %v", err)
	}
}
