package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/eventbind/pkg/eventbind/journal"
)

// messageWidth caps the message column in list output.
const messageWidth = 60

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded handler failures",
	}
	cmd.AddCommand(newJournalListCmd())
	cmd.AddCommand(newJournalShowCmd())
	return cmd
}

func newJournalListCmd() *cobra.Command {
	var (
		dbPath    string
		eventType string
		kind      string
		handler   string
		since     time.Duration
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded failures, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := journal.Filter{
				EventType: eventType,
				Kind:      journal.Kind(kind),
				Handler:   handler,
				Limit:     limit,
			}
			if kind != "" && !filter.Kind.Valid() {
				return fmt.Errorf("unknown kind %q (want one of %v)", kind, journal.Kinds)
			}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			store, err := openJournal(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(filter)
			if err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "journal database file")
	cmd.Flags().StringVar(&eventType, "type", "", "only entries for this event type")
	cmd.Flags().StringVar(&kind, "kind", "", "only entries of this failure kind")
	cmd.Flags().StringVar(&handler, "handler", "", "only entries for this handler")
	cmd.Flags().DurationVar(&since, "since", 0, "only entries recorded within this duration")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries (0 for all)")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func newJournalShowCmd() *cobra.Command {
	var (
		dbPath string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded failure with its diagnostic report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openJournal(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(args[0])
			if errors.Is(err, journal.ErrNotFound) {
				return fmt.Errorf("no journal entry %q", args[0])
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(e)
			}
			renderEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "journal database file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entry as JSON")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

// openJournal opens an existing journal. SQLite would create a missing
// file, so a mistyped path is reported instead.
func openJournal(path string) (*journal.SQLiteStore, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("journal %s does not exist", path)
	} else if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	store, err := journal.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return store, nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func renderEntries(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, text.FgYellow.Sprint("No journal entries found"))
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Recorded", "Event type", "Handler", "Kind", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, WidthMax: messageWidth},
	})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			e.RecordedAt.Local().Format(time.DateTime),
			e.EventType,
			e.Handler,
			string(e.Kind),
			e.Message,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(entries)})
	t.Render()
}

func renderEntry(w io.Writer, e journal.Entry) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"ID", e.ID},
		{"Recorded", e.RecordedAt.Local().Format(time.RFC3339Nano)},
		{"Event ID", e.EventID},
		{"Event type", e.EventType},
		{"Handler", e.Handler},
		{"Kind", string(e.Kind)},
		{"Message", e.Message},
	})
	t.Render()

	if e.Report != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, e.Report)
	}
}
