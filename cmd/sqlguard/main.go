// Command sqlguard runs the recipe SQL guardrail without a database. It is
// handy for checking what the agent's SQL tools would accept.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/spf13/cobra"
)

var errRejected = errors.New("statement rejected")

type options struct {
	rejectVacuousWhere bool
	jsonOutput         bool
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "sqlguard",
		Short:         "Validate SQL against the recipe guardrail",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&opts.rejectVacuousWhere, "reject-vacuous-where", false, "Reject UPDATEs whose WHERE is always true")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")

	root.AddCommand(newValidateCmd(opts), newCheckCmd(opts))
	return root
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <sql>",
		Short: "Validate one statement; '-' reads it from stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if query == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				query = string(data)
			}

			guard := guardrails.NewSQLGuard(guardrails.Options{RejectVacuousWhere: opts.rejectVacuousWhere})
			result := guard.Validate(query)
			if err := report(cmd.OutOrStdout(), result, opts.jsonOutput); err != nil {
				return err
			}
			if !result.Accepted {
				return errRejected
			}
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a file with one statement per line",
		Long: `Validate every non-empty line of a file as its own statement.
Lines starting with '#' are skipped. Exits non-zero when any line is rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			guard := guardrails.NewSQLGuard(guardrails.Options{RejectVacuousWhere: opts.rejectVacuousWhere})
			out := cmd.OutOrStdout()

			var total, rejected int
			scanner := bufio.NewScanner(f)
			for lineNo := 1; scanner.Scan(); lineNo++ {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}

				total++
				result := guard.Validate(line)
				if !result.Accepted {
					rejected++
				}
				if !opts.jsonOutput {
					fmt.Fprintf(out, "%d: ", lineNo)
				}
				if err := report(out, result, opts.jsonOutput); err != nil {
					return err
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			if !opts.jsonOutput {
				fmt.Fprintf(out, "%d statement(s), %d rejected\n", total, rejected)
			}
			if rejected > 0 {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File with SQL statements")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func report(w io.Writer, result guardrails.SQLResult, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(result)
	}
	if result.Accepted {
		_, err := fmt.Fprintf(w, "ACCEPTED (%s): %s\n", result.Kind, result.Query)
		return err
	}
	_, err := fmt.Fprintf(w, "REJECTED (%s): %s\n", result.Error, result.Reason)
	return err
}
