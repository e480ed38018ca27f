package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jensholdgaard/eventdesk/internal/clock"
	"github.com/jensholdgaard/eventdesk/internal/snapshot"
	"github.com/jensholdgaard/eventdesk/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath string
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSONL snapshot of the stored events",
		Long: `Write a JSONL snapshot of the stored events: a header line followed by
one record per event, ordered by id. Reference events are not included.

With --dir the snapshot is written atomically to <dir>/events.jsonl;
otherwise it goes to --out ("-" for stdout).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" && outPath != "-" {
				return fmt.Errorf("--dir and --out are mutually exclusive")
			}

			repos, err := store.Open(cmd.Context(), a.cfg.Database)
			if err != nil {
				return fmt.Errorf("opening store (driver=%s): %w", a.cfg.Database.Driver, err)
			}
			defer repos.Close()

			var buf bytes.Buffer
			if err := snapshot.ExportJSONL(cmd.Context(), repos.Events, clock.System{}, &buf); err != nil {
				return err
			}

			switch {
			case dir != "":
				dest := snapshot.FileDestination{Dir: dir}
				if err := dest.Write(cmd.Context(), buf.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", dest)
			case outPath == "-":
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			default:
				if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file")
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory")
	return cmd
}
