package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/assess"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/pipeline"
)

// assessReport is the printable outcome of a stack assessment.
type assessReport struct {
	Verdict graph.Status `json:"verdict" yaml:"verdict"`
	Weakest *assess.Row  `json:"weakest,omitempty" yaml:"weakest,omitempty"`
	Rows    []assess.Row `json:"rows" yaml:"rows"`
	Chain   []string     `json:"chain" yaml:"chain"`
	Unknown []string     `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// assessCommand creates the assess command.
func (c *CLI) assessCommand() *cobra.Command {
	var (
		sel         assess.Selection
		output      string
		listOptions bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "assess [entity-id...]",
		Short: "Rate the post-quantum readiness of a composite stack",
		Long: `Rate the post-quantum readiness of a composite stack.

Pick entities by category flags or as arguments. Each is rated by its
aggregated readiness; the stack is only as ready as its weakest link. The
stack chain lists everything the selection depends on or ships.

Use --options to list the selectable entities per category.`,
		Example: `  pqcgraph assess --platform aws --os rhel --language python --service nginx
  pqcgraph assess openssl go -o yaml
  pqcgraph assess --options`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listOptions {
				return c.runAssessOptions(cmd.Context(), output, noCache)
			}
			ids := append(sel.IDs(), parseIDs(args)...)
			return c.runAssess(cmd.Context(), ids, output, noCache)
		},
	}

	cmd.Flags().StringVar(&sel.Platform, "platform", "", "cloud platform entity ID")
	cmd.Flags().StringVar(&sel.OS, "os", "", "operating system entity ID")
	cmd.Flags().StringVar(&sel.Language, "language", "", "language or runtime entity ID")
	cmd.Flags().StringSliceVar(&sel.Services, "service", nil, "service entity IDs")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&listOptions, "options", false, "list selectable entities per category")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runAssess(ctx context.Context, ids []string, output string, noCache bool) error {
	if err := validateOutput(output); err != nil {
		return err
	}

	s, err := c.open(ctx, noCache, pipeline.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.runner.Assess(ctx, s.result.Graph, ids)
	if err != nil {
		return err
	}
	rep := assessReport{
		Verdict: a.Verdict(),
		Weakest: a.Weakest,
		Rows:    a.Rows,
		Chain:   a.Chain,
		Unknown: a.Unknown,
	}
	if output != outputText {
		return writeStructured(os.Stdout, output, rep)
	}

	for _, id := range rep.Unknown {
		printWarning("Unknown entity %q ignored", id)
	}
	fmt.Println(assessTable(rep.Rows, rep.Weakest))
	printNewline()
	printKeyValue("Verdict", renderStatus(rep.Verdict))
	if rep.Weakest != nil {
		printKeyValue("Weakest", rep.Weakest.Name)
	}
	printKeyValue("Chain", fmt.Sprintf("%d entities", len(rep.Chain)))
	return nil
}

func assessTable(rows []assess.Row, weakest *assess.Row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Name, fmt.Sprintf("%d", r.Layer), r.Status.Label(), r.Detail}
	}
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Entity", "Layer", "Readiness", "Detail").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return header
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 2 {
				base = base.Foreground(statusColor(rows[row].Status))
			}
			if weakest != nil && rows[row].ID == weakest.ID {
				base = base.Bold(true)
			}
			return base
		}).
		Render()
}

func (c *CLI) runAssessOptions(ctx context.Context, output string, noCache bool) error {
	if err := validateOutput(output); err != nil {
		return err
	}

	s, err := c.open(ctx, noCache, pipeline.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	opts := assess.CandidateOptions(s.result.Graph)
	if output != outputText {
		return writeStructured(os.Stdout, output, opts)
	}

	for _, group := range []struct {
		title string
		flag  string
		list  []assess.Option
	}{
		{"Platforms", "--platform", opts.Platforms},
		{"Operating Systems", "--os", opts.OS},
		{"Languages", "--language", opts.Languages},
		{"Services", "--service", opts.Services},
	} {
		fmt.Println(StyleTitle.Render(group.title) + " " + StyleDim.Render(group.flag))
		ids := make([]string, len(group.list))
		for i, o := range group.list {
			ids[i] = o.ID
		}
		printDetail("%s", strings.Join(ids, ", "))
	}
	return nil
}
