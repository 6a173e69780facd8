// The distributor ordering app: browse the catalog, manage the cart and
// submit orders from the terminal. State (cart, session, profile) persists
// under the configured state directory between runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/internal/cart"
	"github.com/narayanji/distributor-app/pkg/kvstore"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/narayanji/distributor-app/pkg/storefront"
)

const usage = `Usage: app <command> [arguments]

Commands:
  login <phone>                request an OTP and sign in
  logout                       discard the local session
  catalog [search]             browse products
  cart                         show the cart with live prices and totals
  add <sku> <kg>               add quantity to the cart (merges with existing)
  set <sku> <kg>               set a line's quantity (below 0.5 kg removes it)
  remove <sku>                 remove a line
  checkout                     submit the cart for review
  orders                       list submitted orders
  order <number>               show one order
`

func main() {
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	store, err := openStateStore(&cfg.Client)
	if err != nil {
		fatal(err)
	}
	repo := cart.NewRepository(store)

	client, err := storefront.NewClient(storefront.Config{BaseURL: cfg.Client.APIBaseURL}, tokenSource{repo})
	if err != nil {
		fatal(err)
	}
	svc := cart.NewService(repo, client, client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], repo, client, svc); err != nil {
		fatal(err)
	}
}

// openStateStore picks the state backend: files on disk by default, Redis
// when the app runs in a shared environment.
func openStateStore(cfg *config.ClientConfig) (kvstore.Store, error) {
	if cfg.StateRedisAddr != "" {
		return kvstore.NewRedisStore(cfg.StateRedisAddr, "", 0, "narayanji")
	}
	return kvstore.NewFileStore(cfg.StateDir)
}

// tokenSource adapts the cart repository to the storefront client.
type tokenSource struct {
	repo cart.Repository
}

func (t tokenSource) Token() (string, error) {
	return t.repo.Token()
}

func run(ctx context.Context, command string, args []string, repo cart.Repository, client *storefront.Client, svc cart.Service) error {
	switch command {
	case "login":
		return login(ctx, args, repo, client)
	case "logout":
		if err := repo.ClearToken(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	case "catalog":
		return catalog(ctx, args, client)
	case "cart":
		return showCart(ctx, svc)
	case "add":
		return addItem(ctx, args, svc)
	case "set":
		return setQuantity(args, svc)
	case "remove":
		return removeItem(args, svc)
	case "checkout":
		return checkout(ctx, svc)
	case "orders":
		return listOrders(ctx, client)
	case "order":
		return showOrder(ctx, args, client)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func login(ctx context.Context, args []string, repo cart.Repository, client *storefront.Client) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: app login <phone>")
	}
	phone := args[0]

	if err := client.RequestOTP(ctx, phone); err != nil {
		return err
	}

	fmt.Print("Enter the code sent to your phone: ")
	var code string
	if _, err := fmt.Scanln(&code); err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}

	session, err := client.VerifyOTP(ctx, phone, code)
	if err != nil {
		return err
	}

	if err := repo.SetToken(session.AccessToken); err != nil {
		return err
	}
	if session.Name != "" {
		if err := repo.SetDisplayName(session.Name); err != nil {
			return err
		}
	}

	fmt.Printf("Signed in as %s.\n", session.Name)
	return nil
}

func catalog(ctx context.Context, args []string, client *storefront.Client) error {
	search := ""
	if len(args) > 0 {
		search = args[0]
	}

	products, total, err := client.SearchProducts(ctx, search, 1, 50)
	if err != nil {
		return err
	}

	for _, p := range products {
		fmt.Printf("%-14s %-28s ₹%.2f/kg  GST %.0f%%\n", p.SKU, p.Name, p.PricePerKg, p.GSTPercent)
	}
	fmt.Printf("%d of %d products\n", len(products), total)
	return nil
}

func showCart(ctx context.Context, svc cart.Service) error {
	lines, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("Your cart is empty.")
		return nil
	}

	for _, line := range lines {
		fmt.Printf("%-14s %-28s %.2f kg × ₹%.2f = ₹%.2f\n",
			line.SKU, line.Product.Name, line.QuantityKg, line.Product.PricePerKg, line.Total)
	}
	fmt.Printf("\nSubtotal: ₹%.2f\nGST:      ₹%.2f\nTotal:    ₹%.2f\n",
		cart.Subtotal(lines), cart.GST(lines), cart.GrandTotal(lines))
	return nil
}

func addItem(ctx context.Context, args []string, svc cart.Service) error {
	sku, qty, err := parseLineArgs(args, "add")
	if err != nil {
		return err
	}
	if qty < cart.MinQuantityKg {
		return fmt.Errorf("minimum order quantity is %.1f kg", cart.MinQuantityKg)
	}

	// Verify the SKU exists before putting it in the cart.
	if _, err := svc.LookupProduct(ctx, sku); err != nil {
		return err
	}

	if _, err := svc.AddItem(sku, qty); err != nil {
		return err
	}
	fmt.Printf("Added %.2f kg of %s.\n", qty, sku)
	return nil
}

func setQuantity(args []string, svc cart.Service) error {
	sku, qty, err := parseLineArgs(args, "set")
	if err != nil {
		return err
	}

	if _, err := svc.UpdateQuantity(sku, qty); err != nil {
		return err
	}
	if qty < cart.MinQuantityKg {
		fmt.Printf("Removed %s (below the %.1f kg minimum).\n", sku, cart.MinQuantityKg)
	} else {
		fmt.Printf("Set %s to %.2f kg.\n", sku, qty)
	}
	return nil
}

func removeItem(args []string, svc cart.Service) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: app remove <sku>")
	}
	if _, err := svc.RemoveItem(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s.\n", args[0])
	return nil
}

func checkout(ctx context.Context, svc cart.Service) error {
	order, err := svc.Submit(ctx)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			return fmt.Errorf("your cart is empty")
		}
		return err
	}

	fmt.Printf("Order %s submitted. Total ₹%.2f (incl. GST ₹%.2f).\n",
		order.Number, order.TotalAmount, order.GSTAmount)
	return nil
}

func listOrders(ctx context.Context, client *storefront.Client) error {
	orders, err := client.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	for _, o := range orders {
		fmt.Printf("%-14s %-12s ₹%10.2f  %s\n",
			o.Number, o.Status, o.TotalAmount, o.CreatedAt.Format("02 Jan 2006"))
	}
	return nil
}

func showOrder(ctx context.Context, args []string, client *storefront.Client) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: app order <number>")
	}

	order, err := client.GetOrder(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Order %s: %s\n", order.Number, order.Status)
	for _, item := range order.Items {
		fmt.Printf("  %-14s %-28s %.2f kg × ₹%.2f = ₹%.2f\n",
			item.SKU, item.Name, item.QuantityKg, item.PricePerKg, item.LineTotal)
	}
	fmt.Printf("Subtotal ₹%.2f  GST ₹%.2f  Total ₹%.2f\n",
		order.Subtotal, order.GSTAmount, order.TotalAmount)
	return nil
}

func parseLineArgs(args []string, command string) (string, float64, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("usage: app %s <sku> <kg>", command)
	}
	qty, err := strconv.ParseFloat(args[1], 64)
	if err != nil || qty < 0 {
		return "", 0, fmt.Errorf("invalid quantity: %s", args[1])
	}
	return args[0], qty, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
