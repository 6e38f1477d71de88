package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/codec"
	"github.com/atdiar/uistate/replica"
	"github.com/atdiar/uistate/store"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect saved snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.StoreDir)
		if err != nil {
			return err
		}
		defer st.Close()
		infos, err := st.List()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TREE\tCHANGES\tSIZE\tSAVED")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", info.Tree, info.Changes, info.Size, info.SavedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var showJSON bool

var snapshotShowCmd = &cobra.Command{
	Use:   "show <tree-id>",
	Short: "Restore a snapshot into a replica and describe its nodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.StoreDir)
		if err != nil {
			return err
		}
		defer st.Close()
		b, err := st.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showJSON {
			data, err := codec.Marshal(b)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", data)
			return nil
		}
		t := replica.NewTree()
		if err := t.ApplyChanges(b.Changes); err != nil {
			return err
		}
		fmt.Fprintf(out, "tree %s: %d nodes\n", b.Tree, t.Size())
		describe(out, t, 1, 0)
		return nil
	},
}

func init() {
	snapshotShowCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw snapshot batch")
	snapshotCmd.AddCommand(snapshotListCmd, snapshotShowCmd)
}

// describe prints the element tree rooted at node id.
func describe(out io.Writer, t *replica.Tree, id, depth int) {
	indent := fmt.Sprintf("%*s", depth*2, "")
	if text, ok := t.Map(id, ui.TextKind)["text"]; ok {
		fmt.Fprintf(out, "%s#%d %q\n", indent, id, text.Value)
		return
	}
	tag := ""
	if v, ok := t.Map(id, ui.ElementDataKind)["tag"]; ok {
		tag = fmt.Sprint(v.Value)
	}
	fmt.Fprintf(out, "%s#%d <%s>", indent, id, tag)
	attrs := t.Map(id, ui.AttributesKind)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(out, " %s=%q", k, fmt.Sprint(attrs[k].Value))
	}
	fmt.Fprintln(out)
	for _, c := range t.List(id, ui.ChildrenKind) {
		if c.IsNode() {
			describe(out, t, c.Node, depth+1)
		}
	}
}
