package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Describe every provisioning step",
	Long: `Explain lists the steps apply runs, in order, with what each one does and
whether its failure stops the run. It does not inspect the host.
With --verbose it also prints the details and reference links.`,
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, _ []string) error {
	b, err := resolveBundle()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	steps, err := newHomestack(out, logger).Describe(b, verbose)
	if err != nil {
		return err
	}

	for i, s := range steps {
		_, _ = fmt.Fprintf(out, "%2d. %s (%s)\n", i+1, s.ID, s.Policy)
		_, _ = fmt.Fprintf(out, "    %s\n", s.Explanation.Summary())
		if !verbose {
			continue
		}
		if d := s.Explanation.Detail(); d != "" {
			_, _ = fmt.Fprintf(out, "    %s\n", d)
		}
		if links := s.Explanation.DocLinks(); len(links) > 0 {
			_, _ = fmt.Fprintf(out, "    see: %s\n", strings.Join(links, ", "))
		}
	}
	return nil
}
