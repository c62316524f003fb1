package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"shopctl/internal/httperr"
	"shopctl/internal/store"
	"shopctl/pkg/domain"
)

func cmdList() *Command {
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	page := flags.Int("page", 1, "page number")
	limit := flags.Int("limit", 0, "page size (default from config)")
	return &Command{
		Usage: "list [--page n] [--limit n]",
		Short: "browse the catalog",
		Flags: flags,
		Exec: func(a *App, out io.Writer, _ []string) error {
			a.catalog.SetQuery("")
			a.catalog.Load(*page, pickLimit(*limit, a.cfg.CatalogPageSize))
			return printOutcome(out, a.catalog)
		},
	}
}

func cmdSearch() *Command {
	flags := flag.NewFlagSet("search", flag.ContinueOnError)
	page := flags.Int("page", 1, "page number")
	limit := flags.Int("limit", 0, "page size (default from config)")
	return &Command{
		Usage: "search <text> [--page n]",
		Short: "search the catalog",
		Flags: flags,
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) == 0 {
				return errors.New("search text is required")
			}
			a.catalog.SetQuery(strings.Join(args, " "))
			a.catalog.Load(*page, pickLimit(*limit, a.cfg.CatalogPageSize))
			return printOutcome(out, a.catalog)
		},
	}
}

func cmdShow() *Command {
	return &Command{
		Usage: "show <id>",
		Short: "show one product",
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("product ID is required")
			}
			product, err := a.products.Get(args[0])
			if err != nil {
				return errors.New(httperr.Translate(err))
			}
			printProduct(out, product)
			return nil
		},
	}
}

func cmdBuy() *Command {
	flags := flag.NewFlagSet("buy", flag.ContinueOnError)
	qty := flags.Int("qty", 1, "quantity to purchase")
	return &Command{
		Usage: "buy <id> [--qty n]",
		Short: "purchase a product (requires sign-in)",
		Flags: flags,
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("product ID is required")
			}
			if err := a.requireAuth("buy"); err != nil {
				return err
			}
			a.catalog.Purchase(args[0], *qty)
			return printToast(out, a.catalog)
		},
	}
}

func pickLimit(requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	return fallback
}

// printOutcome reports a settled load: the page on success, the
// translated error otherwise.
func printOutcome(out io.Writer, s *store.ProductStore) error {
	snap := s.Snapshot()
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	printPage(out, snap.View)
	return nil
}

// printToast reports a settled mutation: toast on success, error
// otherwise.
func printToast(out io.Writer, s *store.ProductStore) error {
	snap := s.Snapshot()
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	if snap.Toast != "" {
		fmt.Fprintln(out, snap.Toast)
	}
	return nil
}

func printPage(out io.Writer, view domain.PagedProducts) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tSTOCK")
	for _, p := range view.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.SKU, p.Name, p.Price, p.Stock)
	}
	w.Flush()
	fmt.Fprintf(out, "page %d/%d (%d total)\n", view.Page, view.Pages, view.Total)
}

func printProduct(out io.Writer, p domain.Product) {
	fmt.Fprintf(out, "ID:          %s\n", p.ID)
	fmt.Fprintf(out, "SKU:         %s\n", p.SKU)
	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	if p.Description != nil {
		fmt.Fprintf(out, "Description: %s\n", *p.Description)
	}
	fmt.Fprintf(out, "Price:       %.2f\n", p.Price)
	fmt.Fprintf(out, "Stock:       %d\n", p.Stock)
	if p.UpdatedAt != "" {
		fmt.Fprintf(out, "Updated:     %s\n", p.UpdatedAt)
	}
}
