package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/config"
	"github.com/michaelscutari/dugout/internal/report"
	"github.com/michaelscutari/dugout/internal/scan"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	path, err := resolvedConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if workers > 0 {
		cfg.Scan.Workers = workers
	}
	cfg.Scan.ExcludePatterns = append(cfg.Scan.ExcludePatterns, excludes...)
	if formatFlag != "" {
		cfg.Report.Format = formatFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func outputFormat(cfg *config.Config) report.OutputFormat {
	// Validate has already rejected unknown formats.
	f, _ := report.ParseFormat(cfg.Report.Format)
	return f
}

// newEngine builds an engine whose walks report to a stderr progress line.
func newEngine(cfg *config.Config, display *progressDisplay, opts ...analyzer.Option) (*analyzer.Engine, error) {
	opts = append(opts, analyzer.WithLog(os.Stderr))
	if display != nil {
		opts = append(opts, analyzer.WithProgress(display.update))
	}
	return analyzer.New(cfg, opts...)
}

// signalContext is cancelled on the first interrupt. A second interrupt
// exits immediately.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Fprintln(os.Stderr, "\nCanceling... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// progressDisplay draws a spinner line on a terminal and periodic
// PROGRESS lines otherwise. It starts on the first report of a walk and
// clears itself on the last.
type progressDisplay struct {
	tty      bool
	interval time.Duration
	latest   atomic.Pointer[scan.Progress]

	// Reports arrive from one walk at a time.
	running bool
	done    chan struct{}
	stopped chan struct{}
}

func newProgressDisplay(interval time.Duration) *progressDisplay {
	return &progressDisplay{
		tty:      isTerminal(os.Stderr),
		interval: interval,
	}
}

func (d *progressDisplay) update(p scan.Progress) {
	d.latest.Store(&p)
	if p.Done {
		if d.running {
			close(d.done)
			<-d.stopped
			d.running = false
		}
		return
	}
	if !d.running {
		d.running = true
		d.done = make(chan struct{})
		d.stopped = make(chan struct{})
		go d.run(d.done, d.stopped)
	}
}

func (d *progressDisplay) run(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	start := time.Now()
	lastLine := start
	frame := 0

	for {
		select {
		case <-done:
			if d.tty {
				fmt.Fprintf(os.Stderr, "\r\033[K")
			}
			return
		case <-ticker.C:
			p := d.latest.Load()
			elapsed := time.Since(start).Round(time.Millisecond)
			rate := float64(0)
			if elapsed.Seconds() > 0 {
				rate = float64(p.Files+p.Dirs) / elapsed.Seconds()
			}
			if d.tty {
				errStr := ""
				if p.Errors > 0 {
					errStr = fmt.Sprintf(" | %d errors", p.Errors)
				}
				fmt.Fprintf(os.Stderr, "\r\033[K%s Scanning %s... %s files | %s dirs | %s | %.0f/sec | %s%s",
					spinnerFrames[frame%len(spinnerFrames)], p.Root,
					humanize.Comma(p.Files), humanize.Comma(p.Dirs),
					humanize.IBytes(uint64(p.TotalBytes)), rate, elapsed, errStr)
				frame++
			} else if d.interval > 0 && time.Since(lastLine) >= d.interval {
				fmt.Fprintf(os.Stderr, "PROGRESS root=%s files=%d dirs=%d bytes=%s rate=%.0f/sec elapsed=%s errors=%d\n",
					p.Root, p.Files, p.Dirs, humanize.IBytes(uint64(p.TotalBytes)), rate, elapsed, p.Errors)
				lastLine = time.Now()
			}
		}
	}
}
