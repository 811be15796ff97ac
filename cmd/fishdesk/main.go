// fishdesk is the counter operator's tool: enter stock, take and resolve
// orders and look at or export sales, all through the fish-sales API.
//
// Usage:
//
//	FISH_API_BASE_URL=http://localhost:5000/api go run ./cmd/fishdesk stock list
//	go run ./cmd/fishdesk order create --customer Asha --phone 9876543210 --item Pomfret:2:500
//	go run ./cmd/fishdesk sales export --status Resolved --out sales_data.xlsx
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mmdatafocus/fish_backend/apiclient"
	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/feedback"
	"github.com/mmdatafocus/fish_backend/inventory"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/ordering"
	"github.com/mmdatafocus/fish_backend/sales"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fishdesk",
		Usage: "stock, orders and sales for the fish counter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api",
				Usage: "API base URL",
				Value: config.APIBaseURL(),
			},
		},
		Commands: []*cli.Command{
			stockCommand(),
			orderCommand(),
			salesCommand(),
		},
	}
}

func client(c *cli.Context) *apiclient.Client {
	return apiclient.New(c.String("api"), apiclient.WithHTTPClient(&http.Client{Timeout: config.APITimeout()}))
}

func notifier(c *cli.Context) feedback.Notifier {
	return feedback.NewWriterNotifier(c.App.Writer, config.GetLogger())
}

// parseTriple splits "a:b:c". The first part may not be empty.
func parseTriple(s string) (string, string, string, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return "", "", "", fmt.Errorf("expected name:weight:amount, got %q", s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
}

func stockCommand() *cli.Command {
	return &cli.Command{
		Name:  "stock",
		Usage: "today's fish stock",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show stored entries and the total investment",
				Action: func(c *cli.Context) error {
					m := inventory.New(client(c), notifier(c), nil)
					if err := m.Load(c.Context); err != nil {
						return err
					}
					printStock(c.App.Writer, m.Rows())
					fmt.Fprintf(c.App.Writer, "Total Investment: %s INR\n", m.TotalInvestment().StringFixed(2))
					return nil
				},
			},
			{
				Name:  "save",
				Usage: "add entries to the stored stock and save the batch",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "entry", Usage: "name:weight:amount, repeatable", Required: true},
				},
				Action: func(c *cli.Context) error {
					m := inventory.New(client(c), notifier(c), func(rows []models.StockDraft) {
						fmt.Fprintf(c.App.Writer, "%d entries saved\n", len(rows))
					})
					if err := m.Load(c.Context); err != nil {
						return err
					}
					for _, raw := range c.StringSlice("entry") {
						name, weight, amount, err := parseTriple(raw)
						if err != nil {
							return err
						}
						if err := appendStockRow(m, name, weight, amount); err != nil {
							return err
						}
					}
					_, err := m.Submit(c.Context)
					return err
				},
			},
			{
				Name:  "delete",
				Usage: "delete the entry at a row of 'stock list'",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "row", Usage: "row number, starting at 1", Required: true},
				},
				Action: func(c *cli.Context) error {
					m := inventory.New(client(c), notifier(c), nil)
					if err := m.Load(c.Context); err != nil {
						return err
					}
					return m.DeleteRow(c.Context, c.Int("row")-1)
				},
			},
		},
	}
}

func fillLineItem(composer *ordering.Composer, index int, fish, weight, amount string) error {
	if err := composer.EditLineItem(index, ordering.ItemFieldFish, fish); err != nil {
		return err
	}
	if err := composer.EditLineItem(index, ordering.ItemFieldWeight, weight); err != nil {
		return err
	}
	return composer.EditLineItem(index, ordering.ItemFieldAmount, amount)
}

// appendStockRow fills the blank starting row before adding new ones.
func appendStockRow(m *inventory.Manager, name, weight, amount string) error {
	rows := m.Rows()
	index := len(rows) - 1
	if rows[index] != (models.StockDraft{}) {
		m.AddRow()
		index++
	}
	for field, value := range map[inventory.Field]string{
		inventory.FieldName:   name,
		inventory.FieldWeight: weight,
		inventory.FieldAmount: amount,
	} {
		if err := m.EditCell(index, field, value); err != nil {
			return err
		}
	}
	return nil
}

func printStock(w io.Writer, rows []models.StockDraft) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tNAME\tWEIGHT (KG)\tAMOUNT (INR)")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Name, r.Weight, r.Amount)
	}
	tw.Flush()
}

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "customer orders",
		Subcommands: []*cli.Command{
			{
				Name:  "pending",
				Usage: "list pending orders",
				Action: func(c *cli.Context) error {
					composer := ordering.New(client(c))
					err := composer.Load(c.Context)
					if msg := composer.ErrorMessage(); msg != "" {
						fmt.Fprintln(c.App.ErrWriter, msg)
					}
					printOrders(c.App.Writer, composer.Pending())
					return err
				},
			},
			{
				Name:  "create",
				Usage: "submit a new order",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "customer", Usage: "customer name"},
					&cli.StringFlag{Name: "phone", Usage: "customer phone"},
					&cli.StringFlag{Name: "payment", Usage: "Cash, Card or UPI", Value: string(models.PaymentModeCash)},
					&cli.StringFlag{Name: "status", Usage: "Pending or Resolved", Value: string(models.OrderStatusPending)},
					&cli.StringSliceFlag{Name: "item", Usage: "fish:weight:amount, repeatable", Required: true},
				},
				Action: createOrder,
			},
			{
				Name:  "resolve",
				Usage: "move an order to Resolved or Canceled",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "order id", Required: true},
					&cli.StringFlag{Name: "status", Value: string(models.OrderStatusResolved)},
				},
				Action: func(c *cli.Context) error {
					status, err := models.ParseOrderStatus(c.String("status"))
					if err != nil {
						return err
					}
					composer := ordering.New(client(c))
					err = composer.Resolve(c.Context, c.Int("id"), status)
					report(c, composer)
					return err
				},
			},
		},
	}
}

func createOrder(c *cli.Context) error {
	payment, err := models.ParsePaymentMode(c.String("payment"))
	if err != nil {
		return err
	}
	status, err := models.ParseOrderStatus(c.String("status"))
	if err != nil {
		return err
	}
	phone := c.String("phone")
	if phone != "" {
		if err := utils.ValidatePhoneNumber(phone, config.PhoneRegion()); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "warning: phone %q: %v\n", phone, err)
		}
	}

	composer := ordering.New(client(c))
	if err := composer.Load(c.Context); err != nil {
		report(c, composer)
	}
	composer.SetCustomerName(c.String("customer"))
	composer.SetCustomerPhone(phone)
	composer.SetPaymentMode(payment)
	composer.SetStatus(status)
	for i, raw := range c.StringSlice("item") {
		fish, weight, amount, err := parseTriple(raw)
		if err != nil {
			return err
		}
		if i > 0 {
			composer.AddLineItem()
		}
		if err := fillLineItem(composer, i, fish, weight, amount); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.App.Writer, "Total: ₹%s\n", composer.Total().StringFixed(2))

	err = composer.Submit(c.Context)
	report(c, composer)
	if err == nil {
		printOrders(c.App.Writer, composer.Pending())
	}
	return err
}

func report(c *cli.Context, composer *ordering.Composer) {
	if msg := composer.ErrorMessage(); msg != "" {
		fmt.Fprintln(c.App.ErrWriter, msg)
	}
	if msg := composer.SuccessMessage(); msg != "" {
		fmt.Fprintln(c.App.Writer, msg)
	}
}

func printOrders(w io.Writer, orders []models.Order) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCUSTOMER\tPHONE\tPAYMENT\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t₹%s\n",
			o.ID, o.OrderDate, o.CustomerName, o.CustomerPhone, o.PaymentMode, o.Status,
			o.ItemsSummary(), o.ItemsTotal().StringFixed(2))
	}
	tw.Flush()
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "status", Usage: "Pending, Resolved or Canceled"},
		&cli.StringFlag{Name: "payment", Usage: "Cash, Card or UPI"},
		&cli.StringFlag{Name: "fish", Usage: "fish name"},
	}
}

// loadSales applies only the filter flags that were given.
func loadSales(c *cli.Context) (*sales.Aggregator, error) {
	agg := sales.NewAggregator(client(c))
	var patch models.FilterPatch
	if c.IsSet("status") {
		status := models.OrderStatus(c.String("status"))
		patch.Status = &status
	}
	if c.IsSet("payment") {
		payment := models.PaymentMode(c.String("payment"))
		patch.PaymentMode = &payment
	}
	if c.IsSet("fish") {
		fish := c.String("fish")
		patch.FishName = &fish
	}
	err := agg.SetFilter(c.Context, patch)
	return agg, err
}

func salesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sales",
		Usage: "sales over a filter",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print orders and totals",
				Flags: filterFlags(),
				Action: func(c *cli.Context) error {
					agg, err := loadSales(c)
					if err != nil {
						fmt.Fprintln(c.App.ErrWriter, err)
					}
					printSales(c.App.Writer, agg)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "write the loaded orders and totals to a spreadsheet",
				Flags: append(filterFlags(),
					&cli.StringFlag{Name: "out", Value: sales.ExportFileName},
					&cli.BoolFlag{Name: "upload", Usage: "also copy to EXPORT_GCS_BUCKET"},
				),
				Action: func(c *cli.Context) error {
					agg, err := loadSales(c)
					if err != nil {
						fmt.Fprintln(c.App.ErrWriter, err)
					}
					path, err := agg.Export(c.String("out"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s (%d orders)\n", path, len(agg.Orders()))
					if c.Bool("upload") {
						return uploadExport(c.Context, c.App.Writer, agg, path)
					}
					return nil
				},
			},
		},
	}
}

func uploadExport(ctx context.Context, w io.Writer, agg *sales.Aggregator, path string) error {
	bucket := config.ExportBucket()
	if err := agg.Upload(ctx, bucket, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "uploaded gs://%s/%s\n", bucket, path)
	return nil
}

func printSales(w io.Writer, agg *sales.Aggregator) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCUSTOMER\tPHONE\tPAYMENT\tSTATUS\tITEMS\tTOTAL")
	for _, row := range agg.Rows() {
		o := row.Order
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t[%s]\t%s\t₹%s\n",
			o.OrderDate, o.CustomerName, o.CustomerPhone, o.PaymentMode, o.Status,
			strings.Join(row.Items, "; "), row.Total)
	}
	tw.Flush()

	totals := agg.Totals()
	fmt.Fprintf(w, "Total Amount: ₹%s\n", totals.TotalAmount.StringFixed(2))
	fmt.Fprintf(w, "Total Investment: ₹%s\n", totals.TotalInvestment.StringFixed(2))
	fmt.Fprintf(w, "Profit: ₹%s\n", totals.Profit.StringFixed(2))
}
