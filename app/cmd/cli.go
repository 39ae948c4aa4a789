package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/db/seeders"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/models/migrations"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/storage"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/urfave/cli/v3"
)

func NewCli(env configs.ENV, out io.Writer) *cli.Command {
	shopperFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:     "shopper",
			Usage:    "shopper id from the storefront-session cookie",
			Required: true,
		}
	}

	return &cli.Command{
		Name:      "storefront",
		Usage:     "cart backend-for-frontend",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create the storage_entries table for the mysql storage driver",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					slog.Info("migrate: migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: ".env.keys", Usage: "file to write the keys to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(out, c.String("out")); err != nil {
						return err
					}
					slog.Info("generate-keys: copy the keys into your .env file", "file", c.String("out"))
					return nil
				},
			},
			{
				Name:  "cart",
				Usage: "Inspect or change a shopper's stored guest cart",
				Commands: []*cli.Command{
					{
						Name:  "show",
						Usage: "Print the cart with totals",
						Flags: []cli.Flag{shopperFlag()},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withCart(ctx, env, c.String("shopper"), func(cart *services.LocalCartStore) error {
								return printCart(ctx, out, cart)
							})
						},
					},
					{
						Name:  "seed",
						Usage: "Fill the cart with fake products",
						Flags: []cli.Flag{
							shopperFlag(),
							&cli.IntFlag{Name: "items", Value: 3, Usage: "number of products to add"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withCart(ctx, env, c.String("shopper"), func(cart *services.LocalCartStore) error {
								if _, err := seeders.SeedCart(ctx, cart, int(c.Int("items"))); err != nil {
									return err
								}
								return printCart(ctx, out, cart)
							})
						},
					},
					{
						Name:  "clear",
						Usage: "Empty the cart and drop its coupon",
						Flags: []cli.Flag{shopperFlag()},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withCart(ctx, env, c.String("shopper"), func(cart *services.LocalCartStore) error {
								if _, err := cart.Clear(ctx); err != nil {
									return err
								}
								_, err := fmt.Fprintln(out, "cart cleared")
								return err
							})
						},
					},
				},
			},
		},
	}
}

func RunCli(ctx context.Context, env configs.ENV, args []string) error {
	return NewCli(env, os.Stdout).Run(ctx, args)
}

func withCart(ctx context.Context, env configs.ENV, shopperID string, fn func(*services.LocalCartStore) error) error {
	handle, err := OpenStorage(ctx, env)
	if err != nil {
		return err
	}
	defer handle.Close()

	store := storage.Prefixed(handle.Storage, services.ShopperPrefix(shopperID))
	return fn(services.NewLocalCartStore(store, nil, logging.New("cli")))
}

func printCart(ctx context.Context, out io.Writer, cart *services.LocalCartStore) error {
	items := cart.GetCart(ctx)
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "cart is empty")
		return err
	}

	for _, item := range items {
		if _, err := fmt.Fprintf(out, "%-36s  %-28s  %3d x %10s = %10s\n",
			item.ProductID, item.Name, item.Quantity, format.Rupee(item.UnitPrice), format.Rupee(item.LineTotal())); err != nil {
			return err
		}
	}

	summary := cart.Summary(ctx)
	fmt.Fprintf(out, "subtotal  %s\n", format.Rupee(summary.Subtotal))
	if summary.Coupon != nil {
		fmt.Fprintf(out, "discount  -%s (%s)\n", format.Rupee(summary.Discount), summary.Coupon.Code)
	}
	_, err := fmt.Fprintf(out, "total     %s\n", format.Rupee(summary.Total))
	return err
}
