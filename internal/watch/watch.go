// Package watch reloads a netlist whenever its source XML file changes on
// disk, so a long-running query session stays current with re-elaborated
// output instead of needing a restart.
package watch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/netlist-paths/netlistpaths/internal/config"
	"github.com/netlist-paths/netlistpaths/internal/netlist"
)

// Watcher rebuilds a *netlist.Netlist each time its source file is written.
type Watcher struct {
	path string
	cfg  *config.Config
	fsw  *fsnotify.Watcher

	current *netlist.Netlist
	errs    chan error
	updates chan *netlist.Netlist
}

// New creates a Watcher for path. Call Start to begin watching, then read
// from Updates() and Errors() for reload results.
func New(path string, cfg *config.Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &Watcher{
		path:    path,
		cfg:     cfg,
		fsw:     fsw,
		errs:    make(chan error, 1),
		updates: make(chan *netlist.Netlist, 1),
	}, nil
}

// Updates returns the channel of successfully rebuilt netlists.
func (w *Watcher) Updates() <-chan *netlist.Netlist { return w.updates }

// Errors returns the channel of reload failures.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Start loads the netlist once, publishes it, then watches for write events
// and reloads on each one, until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	nl, err := netlist.New(ctx, w.path, w.cfg)
	if err != nil {
		return fmt.Errorf("initial load of %s: %w", w.path, err)
	}
	w.current = nl
	w.updates <- nl

	go func() {
		defer w.fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				nl, err := netlist.New(ctx, w.path, w.cfg)
				if err != nil {
					select {
					case w.errs <- err:
					default:
					}
					continue
				}
				w.current = nl
				select {
				case w.updates <- nl:
				default:
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				select {
				case w.errs <- err:
				default:
				}
			}
		}
	}()
	return nil
}

// Current returns the most recently loaded netlist, or nil before the first
// load completes.
func (w *Watcher) Current() *netlist.Netlist { return w.current }
