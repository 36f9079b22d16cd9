// Command notnow is the terminal task manager's entrypoint: it resolves
// configuration/state paths, acquires the single-instance lock, loads the
// three persisted documents, and runs the event loop until interrupted,
// saving everything back on a clean shutdown.
//
// Grounded on _examples/haricheung-agentic-shell/cmd/agsh/main.go for the
// overall shape (cache-dir resolution, debug-log redirection via
// log.SetOutput, context.WithCancel plus signal.Notify, readline-driven
// input) generalized from a one-shot/REPL agent shell to a persistent
// TUI task manager per SPEC_FULL.md's component wiring.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/deso/notnow/internal/eventloop"
	"github.com/deso/notnow/internal/formula"
	"github.com/deso/notnow/internal/nnerr"
	"github.com/deso/notnow/internal/paths"
	"github.com/deso/notnow/internal/uistate"
	"github.com/deso/notnow/internal/view"
)

func main() {
	configDir := flag.String("config-dir", "", "override the configuration directory (default: XDG config home)")
	force := flag.Bool("force", false, "proceed even if the instance lock file already exists")
	flag.Parse()

	if err := run(*configDir, *force); err != nil {
		fmt.Fprintf(os.Stderr, "notnow: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string, force bool) error {
	p, err := paths.New(configDir)
	if err != nil {
		return fmt.Errorf("resolving paths: %w", err)
	}
	if err := os.MkdirAll(p.UIStateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.MkdirAll(p.UIConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(p.TasksDir(), 0o755); err != nil {
		return fmt.Errorf("creating tasks dir: %w", err)
	}

	// Redirect low-level trace output to a debug file so it never interferes
	// with the terminal UI; slog continues to carry structured diagnostics.
	debugPath := filepath.Join(p.UIStateDir(), "debug.log")
	if f, err := os.OpenFile(debugPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	if err := acquireLock(p.LockFile(), force); err != nil {
		return err
	}
	defer os.Remove(p.LockFile())

	docs, err := uistate.Open(p)
	if err != nil {
		return fmt.Errorf("protecting document directories: %w", err)
	}
	// Deferred after the lock removal above, so it runs first: the state
	// directory (which holds the lock file) must be writeable again
	// before os.Remove(p.LockFile()) can unlink it.
	defer docs.Close()

	catalog, db, err := docs.LoadTaskState()
	if err != nil {
		return fmt.Errorf("loading task state: %w", err)
	}
	cfg, err := docs.LoadUIConfig()
	if err != nil {
		return fmt.Errorf("loading UI config: %w", err)
	}
	state, err := docs.LoadUIState()
	if err != nil {
		return fmt.Errorf("loading UI state: %w", err)
	}

	views := make([]*view.View[struct{}], 0, len(cfg.Views))
	for _, vc := range cfg.Views {
		f, err := formula.Parse(vc.Formula)
		if err != nil {
			if vc.Formula == "" {
				views = append(views, view.New[struct{}](vc.Name, db, nil))
				continue
			}
			return fmt.Errorf("parsing formula for view %q: %w", vc.Name, err)
		}
		views = append(views, view.FromFormula(vc.Name, db, f, catalog))
	}
	slog.Info("[NOTNOW] loaded views", "count", len(views))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(p.UIStateDir(), "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing input: %w", err)
	}
	defer rl.Close()

	bus := eventloop.NewBus()
	loop := eventloop.NewLoop(bus, 64)
	// Run blocks for the program's lifetime, returning once ctx is
	// canceled by the signal handler above.
	loop.Run(ctx, &lineKeyReader{rl: rl})

	if err := docs.SaveAll(catalog, db, cfg, state); err != nil {
		return fmt.Errorf("saving state on shutdown: %w", err)
	}
	return nil
}

// acquireLock enforces spec.md's single-instance policy: startup refuses
// to proceed if the lock file already exists unless force is set.
func acquireLock(lockFile string, force bool) error {
	if !force {
		if _, err := os.Stat(lockFile); err == nil {
			return fmt.Errorf("%w: %s (pass --force to override)", nnerr.LockHeld, lockFile)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking lock file %s: %w", lockFile, err)
		}
	}
	f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating lock file %s: %w", lockFile, err)
	}
	return f.Close()
}

// lineKeyReader adapts a readline.Instance's line-oriented input to
// eventloop.KeyReader's one-rune-at-a-time contract: it reads a full line
// and yields its runes one by one, followed by a synthetic newline, before
// reading the next line.
type lineKeyReader struct {
	rl      *readline.Instance
	pending []rune
}

func (r *lineKeyReader) ReadKey() (rune, error) {
	for len(r.pending) == 0 {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return 0, err
		}
		r.pending = append([]rune(line), '\n')
	}
	k := r.pending[0]
	r.pending = r.pending[1:]
	return k, nil
}
