package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/tally/internal/app"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/ui/style"
)

const dateLayout = "2006-01-02"

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, _ := cmd.Flags().GetInt("page")
			res, err := c.app.List(cmd.Context(), app.ListOptions{
				Options: options(cmd),
				Filter:  filterFromFlags(cmd),
				Page:    page,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderList(res))
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().IntP("page", "p", 1, "Page to print")
	return cmd
}

func (c *CLI) newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through events interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Browse(cmd.Context(), app.ListOptions{
				Options: options(cmd),
				Filter:  filterFromFlags(cmd),
			})
		},
	}
	addFilterFlags(cmd)
	return cmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("sort", "s", "date", "Field to sort by: date, title, category or attendees")
	cmd.Flags().Bool("desc", false, "Sort in descending order")
	cmd.Flags().String("category", "", "Only show events of this category")
	cmd.Flags().StringP("search", "q", "", "Only show events whose title or location contains this text")
	cmd.Flags().Bool("prefix", false, "Match --search against the start of the title only")
}

func filterFromFlags(cmd *cobra.Command) domain.Filter {
	sortField, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")
	category, _ := cmd.Flags().GetString("category")
	search, _ := cmd.Flags().GetString("search")
	prefix, _ := cmd.Flags().GetBool("prefix")

	f := domain.Filter{
		Scope:         domain.EventScope,
		SortField:     sortField,
		SortDirection: domain.SortAsc,
		Category:      category,
	}
	if desc {
		f.SortDirection = domain.SortDesc
	}
	if search != "" {
		f.SearchMode = domain.SearchContains
		if prefix {
			f.SearchMode = domain.SearchPrefix
		}
		f.SearchQuery = search
	}
	return f
}

func renderList(res app.ListResult) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(style.Teal)
	dim := lipgloss.NewStyle().Foreground(style.Slate)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dim).
		Headers("DATE", "TITLE", "CATEGORY", "LOCATION", "ATTENDEES").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(header)
			}
			if col == 4 {
				return s.Align(lipgloss.Right)
			}
			return s
		})
	for _, ev := range res.Records {
		t.Row(ev.Date.Format(dateLayout), ev.Title, ev.Category, ev.Location, strconv.Itoa(ev.Attendees))
	}

	footer := fmt.Sprintf("page %d of %d", res.State.CurrentPage, res.State.TotalPages)
	if res.Total != nil {
		footer += fmt.Sprintf(" · %d events", *res.Total)
	}
	return t.Render() + "\n" + dim.Render(footer)
}
