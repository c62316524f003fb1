package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"shopctl/internal/httperr"
	"shopctl/pkg/domain"
)

const exportConcurrency = 4

func cmdExport() *Command {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	outPath := flags.String("out", "products.json", "output file")
	limit := flags.Int("limit", 100, "page size used while fetching")
	return &Command{
		Usage: "export [--out file]",
		Short: "export the whole catalog to JSON",
		Flags: flags,
		Exec: func(a *App, out io.Writer, _ []string) error {
			products, err := a.fetchAll(*limit)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(products, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if err := os.WriteFile(*outPath, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(out, "exported %d products to %s\n", len(products), *outPath)
			return nil
		},
	}
}

// fetchAll pulls every catalog page, fanning out page fetches after
// the first response reveals the page count.
func (a *App) fetchAll(limit int) ([]domain.Product, error) {
	first, err := a.products.List(1, limit)
	if err != nil {
		return nil, errors.New(httperr.Translate(err))
	}
	pages := make([][]domain.Product, first.Pages)
	pages[0] = first.Items

	g := new(errgroup.Group)
	g.SetLimit(exportConcurrency)
	for p := 2; p <= first.Pages; p++ {
		p := p
		g.Go(func() error {
			view, err := a.products.List(p, first.Limit)
			if err != nil {
				return err
			}
			pages[p-1] = view.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.New(httperr.Translate(err))
	}

	all := make([]domain.Product, 0, first.Total)
	for _, items := range pages {
		all = append(all, items...)
	}
	return all, nil
}
