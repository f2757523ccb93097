package formatter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	tt "github.com/gnolang/sift/internal/types"
)

// WriteTable summarizes how many issues each rule reported per file.
func WriteTable(w io.Writer, issues []tt.Issue) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Rule", "Severity", "Issues"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})

	files, issuesByFile := GroupByFile(issues)
	for _, filename := range files {
		for _, group := range groupByRule(issuesByFile[filename]) {
			table.Append([]string{
				filename,
				group[0].Rule,
				group[0].Severity.String(),
				fmt.Sprintf("%d", len(group)),
			})
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d files", len(files)),
		"",
		"Total",
		fmt.Sprintf("%d", len(issues)),
	})
	table.Render()
	return nil
}
