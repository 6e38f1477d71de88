package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/codec"
	"github.com/atdiar/uistate/dom"
	"github.com/atdiar/uistate/script"
	"github.com/atdiar/uistate/store"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yosssi/gohtml"
)

var (
	printHTML bool
	saveSnap  bool
	watch     bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Apply a mutation script and print one JSON batch per sync step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !watch {
			return replay(cmd.Context(), args[0], out)
		}
		return watchScript(cmd.Context(), args[0], func() {
			if err := replay(cmd.Context(), args[0], out); err != nil {
				ui.Log.Error("replay failed", "script", args[0], "err", err)
			}
		})
	},
}

func init() {
	replayCmd.Flags().BoolVar(&printHTML, "html", false, "print the resulting HTML")
	replayCmd.Flags().BoolVar(&saveSnap, "save", false, "save a snapshot of the resulting tree")
	replayCmd.Flags().BoolVarP(&watch, "watch", "w", false, "replay again whenever the script changes")
}

func replay(ctx context.Context, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading script")
	}
	s, err := script.Parse(data)
	if err != nil {
		return err
	}

	u := dom.NewUI()
	r := script.NewRunner(u)
	err = r.Run(ctx, s, func(b *codec.Batch) error {
		line, err := codec.Marshal(b)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", line)
		return err
	})
	if err != nil {
		return err
	}
	for _, evt := range r.Events {
		ui.Log.Info("event received", "listener", evt)
	}

	if printHTML {
		var html string
		u.Access(func(*ui.StateTree) { html = u.Body().OuterHTML() })
		if cfg.PrettyHTML {
			html = gohtml.Format(html)
		}
		fmt.Fprintln(out, html)
	}
	if saveSnap {
		return saveSnapshot(u)
	}
	return nil
}

// snapshotBatch encodes the whole content of the tree as a single batch.
func snapshotBatch(u *dom.UI) (*codec.Batch, error) {
	var changes []ui.NodeChange
	u.Access(func(t *ui.StateTree) {
		t.Snapshot(func(c ui.NodeChange) { changes = append(changes, c) })
	})
	return codec.NewEncoder(u.Tree().ID().String()).Encode(changes)
}

func saveSnapshot(u *dom.UI) error {
	b, err := snapshotBatch(u)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(b.Tree, b); err != nil {
		return err
	}
	ui.Log.Info("snapshot saved", "tree", b.Tree, "changes", len(b.Changes))
	return nil
}

// watchScript runs fn once, then again after every write to path, until ctx
// is done.
func watchScript(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer w.Close()
	// editors often replace the file, so the directory is watched
	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching %s", path)
	}
	target := filepath.Clean(path)

	fn()
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce = time.After(100 * time.Millisecond)
			}
		case <-debounce:
			debounce = nil
			fn()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ui.Log.Warn("watch error", "err", err)
		}
	}
}
