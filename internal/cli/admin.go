package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"shopctl/internal/api"
)

func cmdCreate() *Command {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	sku := flags.String("sku", "", "stock keeping unit (required)")
	name := flags.String("name", "", "product name (required)")
	description := flags.String("description", "", "optional description")
	price := flags.Float64("price", 0, "unit price")
	stock := flags.Int("stock", 0, "initial stock")
	return &Command{
		Usage: "create --sku s --name n [flags]",
		Short: "create a product (admin)",
		Flags: flags,
		Exec: func(a *App, out io.Writer, _ []string) error {
			if err := a.requireAdmin("create"); err != nil {
				return err
			}
			if *sku == "" || *name == "" {
				return errors.New("--sku and --name are required")
			}
			payload := api.CreateProduct{
				SKU:   *sku,
				Name:  *name,
				Price: *price,
				Stock: *stock,
			}
			if *description != "" {
				payload.Description = description
			}
			a.admin.Create(payload)
			return printToast(out, a.admin)
		},
	}
}

func cmdUpdate() *Command {
	flags := flag.NewFlagSet("update", flag.ContinueOnError)
	name := flags.String("name", "", "new product name")
	description := flags.String("description", "", "new description")
	price := flags.Float64("price", 0, "new unit price")
	return &Command{
		Usage: "update <id> [flags]",
		Short: "edit product fields (admin)",
		Flags: flags,
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("product ID is required")
			}
			if err := a.requireAdmin("update"); err != nil {
				return err
			}
			payload := api.UpdateProduct{}
			if flags.Changed("name") {
				payload.Name = name
			}
			if flags.Changed("description") {
				payload.Description = description
			}
			if flags.Changed("price") {
				payload.Price = price
			}
			if payload.Name == nil && payload.Description == nil && payload.Price == nil {
				return errors.New("nothing to update (set --name, --description, or --price)")
			}
			a.admin.Update(args[0], payload)
			return printToast(out, a.admin)
		},
	}
}

func cmdDelete() *Command {
	return &Command{
		Usage: "delete <id>",
		Short: "delete a product (admin)",
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("product ID is required")
			}
			if err := a.requireAdmin("delete"); err != nil {
				return err
			}
			a.admin.Remove(args[0])
			return printToast(out, a.admin)
		},
	}
}

func cmdAdjustStock() *Command {
	flags := flag.NewFlagSet("adjust-stock", flag.ContinueOnError)
	delta := flags.Int("delta", 0, "relative stock change, may be negative")
	return &Command{
		Usage: "adjust-stock <id> --delta n",
		Short: "apply a relative stock change (admin)",
		Flags: flags,
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("product ID is required")
			}
			if err := a.requireAdmin("adjust-stock"); err != nil {
				return err
			}
			if !flags.Changed("delta") {
				return errors.New("--delta is required")
			}
			a.admin.AdjustStock(args[0], *delta)
			return printToast(out, a.admin)
		},
	}
}

func cmdSetStock() *Command {
	flags := flag.NewFlagSet("set-stock", flag.ContinueOnError)
	stock := flags.Int("stock", 0, "absolute stock level")
	return &Command{
		Usage: "set-stock <id> --stock n",
		Short: "set the absolute stock level (admin)",
		Flags: flags,
		Exec: func(a *App, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("product ID is required")
			}
			if err := a.requireAdmin("set-stock"); err != nil {
				return err
			}
			if !flags.Changed("stock") {
				return errors.New("--stock is required")
			}
			a.admin.SetStock(args[0], *stock)
			return printToast(out, a.admin)
		},
	}
}
