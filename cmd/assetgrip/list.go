package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"assetgrip/internal/domain"
	"assetgrip/internal/history"
	"assetgrip/internal/printers"
	"assetgrip/internal/ui/services/browse"
)

type listOptions struct {
	Page        int
	Search      string
	Subcategory string
	Counts      bool
}

func newListCommand(root *rootOptions) *cobra.Command {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "Print one page of a category.",
		Long: fmt.Sprintf("Print one page of a category as a table.\n\nCategories: %s",
			strings.Join(domain.Categories, ", ")),
		Example: `
assetgrip list Objects
assetgrip list Objects --page 2 --subcategory Weapons
assetgrip list Sounds --subcategory "Music Templates"
assetgrip list --counts
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: domain.Categories,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := root.load(nil)
			if err != nil {
				return err
			}
			client := newClient(cfg)
			svc := browse.NewService(client, nil, nil, history.NewStack(0), cfg.Browse.PageSize)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if lo.Counts || len(args) == 0 {
				counts, err := svc.LoadCategoryCounts(ctx)
				if err != nil {
					return err
				}
				printers.Counts(color.Output, counts)
				return nil
			}

			category, err := resolveCategory(args[0])
			if err != nil {
				return err
			}
			if err := svc.OpenCategoryWithSubcategory(ctx, category, lo.Subcategory); err != nil {
				return err
			}
			if lo.Search != "" {
				if err := svc.PerformSearch(ctx, lo.Search); err != nil {
					return err
				}
			}
			if lo.Page > 1 {
				moved, err := svc.ChangePage(ctx, lo.Page-1)
				if err != nil {
					return err
				}
				if !moved {
					return fmt.Errorf("page %d is out of range, %s has %d", lo.Page, category, svc.State().TotalPages())
				}
			}

			st := svc.State()
			printers.Page(color.Output, printers.PageInfo{
				Category:    st.Category,
				Subcategory: st.Subcategory,
				Page:        st.Page,
				TotalPages:  st.TotalPages(),
				TotalItems:  st.TotalItems,
			}, svc.Items())
			return nil
		},
	}

	cmd.Flags().IntVarP(&lo.Page, "page", "p", 1, "Page to print, starting at 1.")
	cmd.Flags().StringVarP(&lo.Search, "search", "s", "", "Only list assets matching this term.")
	cmd.Flags().StringVar(&lo.Subcategory, "subcategory", "", "Subcategory filter, e.g. Weapons or \"Music Templates\".")
	cmd.Flags().BoolVar(&lo.Counts, "counts", false, "Print the number of items per category instead.")
	return cmd
}

// resolveCategory matches name against the known categories ignoring case
func resolveCategory(name string) (string, error) {
	for _, cat := range domain.Categories {
		if strings.EqualFold(cat, name) {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown category %q, expected one of %s", name, strings.Join(domain.Categories, ", "))
}
