package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gnolang/sift/internal/rule"
	"github.com/gnolang/sift/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule types and the configured rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := lint.Resolve(cfgFile, rulesFile)
		if err != nil {
			return err
		}
		printRuleKinds(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout())
		printConfiguredRules(cmd.OutOrStdout(), rule.NewSet(config.Rules))
		return nil
	},
}

func parameterName(p rule.Parameter) string {
	switch p {
	case rule.TextParameter:
		return "text"
	case rule.IntParameter:
		return "integer"
	}
	return "-"
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	return table
}

func printRuleKinds(w io.Writer) {
	table := newTable(w, "Type", "Parameter", "Description")
	for _, k := range rule.Kinds() {
		table.Append([]string{k.String(), parameterName(k.Parameter()), k.Description()})
	}
	table.Render()
}

func printConfiguredRules(w io.Writer, rules []rule.Rule) {
	table := newTable(w, "ID", "Rule", "Applied to", "Severity", "Status")
	for _, r := range rules {
		status := "ok"
		if r.Kind == rule.Unknown {
			status = r.Problem
		} else if err := r.Validate(); err != nil {
			status = err.Error()
		}
		table.Append([]string{
			fmt.Sprintf("%d", r.ID),
			r.Name(),
			r.Target.String(),
			r.Severity.String(),
			status,
		})
	}
	table.Render()
}
