// Command storefront drives the cart and checkout workflow against a
// storefront backend: log in, browse, fill the cart, place an order and
// optionally follow its status updates.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/shopwave/storefront/internal/api"
	"github.com/shopwave/storefront/internal/cart"
	"github.com/shopwave/storefront/internal/catalog"
	"github.com/shopwave/storefront/internal/config"
	"github.com/shopwave/storefront/internal/domain"
	"github.com/shopwave/storefront/internal/events"
	"github.com/shopwave/storefront/internal/notifications"
	"github.com/shopwave/storefront/internal/orders"
	"github.com/shopwave/storefront/internal/session"
	"github.com/shopwave/storefront/pkg/logger"
	"github.com/shopwave/storefront/pkg/shutdown"
)

type options struct {
	email     string
	password  string
	productID string
	quantity  int
	address   string
	payment   string
	note      string
	pushToken string
	clear     bool
	readAll   bool
	follow    time.Duration
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.email, "email", "demo@shopwave.test", "account email")
	flag.StringVar(&opts.password, "password", "demo123", "account password")
	flag.StringVar(&opts.productID, "product", "", "product id to add to the cart")
	flag.IntVar(&opts.quantity, "qty", 1, "quantity to add")
	flag.StringVar(&opts.address, "address", "", "shipping address; placing an order requires it")
	flag.StringVar(&opts.payment, "payment", string(domain.PaymentCashOnDelivery), "credit_card, paypal or cash_on_delivery")
	flag.StringVar(&opts.note, "note", "", "order note")
	flag.StringVar(&opts.pushToken, "push-token", "", "device push token to register")
	flag.BoolVar(&opts.clear, "clear", false, "empty the cart before anything else")
	flag.BoolVar(&opts.readAll, "read-all", false, "mark every notification read")
	flag.DurationVar(&opts.follow, "follow", 0, "follow order status updates for this long (needs KAFKA_BROKERS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(2)
	}
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error("storefront failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, log *slog.Logger) error {
	var (
		tokens       session.TokenStore = session.NewMemoryStore()
		productCache catalog.ProductCache
	)
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		tokens = session.NewRedisStore(rdb, strings.ToLower(opts.email))
		productCache = catalog.NewRedisCache(rdb)
	}

	sess := session.New(tokens, log)
	client, err := api.New(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, sess, log)
	if err != nil {
		return err
	}

	coordinator := cart.NewCoordinator(client, client, log)
	sess.OnExpired(func() {
		coordinator.Reset()
		log.Warn("session expired, log in again")
	})

	if err := ensureLoggedIn(ctx, sess, client, opts); err != nil {
		return err
	}
	profile, err := client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	log.Info("logged in", slog.String("user_id", profile.ID), slog.String("name", profile.Name))

	if opts.pushToken != "" {
		if err := client.RegisterPushToken(ctx, opts.pushToken); err != nil {
			log.Warn("register push token failed", slog.Any("err", err))
		}
	}

	shop := catalog.NewService(client, productCache, log)
	home, err := shop.Home(ctx)
	if err != nil {
		return fmt.Errorf("load home: %w", err)
	}
	log.Info("home loaded",
		slog.Int("categories", len(home.Categories)),
		slog.Int("new_arrivals", len(home.NewArrivals)),
		slog.Int("top_selling", len(home.TopSelling)),
	)

	if err := coordinator.FetchCart(ctx); err != nil {
		return err
	}
	if opts.clear {
		if err := coordinator.RemoveAllItems(ctx); err != nil {
			return err
		}
	}

	if opts.productID != "" {
		product, err := shop.Product(ctx, opts.productID)
		if err != nil {
			return fmt.Errorf("load product %s: %w", opts.productID, err)
		}
		if err := coordinator.AddItem(ctx, *product, opts.quantity); err != nil {
			return err
		}
		// stock moved; don't serve it from cache next time
		shop.Forget(ctx, product.ID)
	}
	printCart(coordinator.State())

	history := orders.NewHistory(client, log)
	if opts.address != "" {
		confirmation, err := coordinator.PlaceOrder(ctx, domain.OrderDraft{
			ShippingAddress: domain.FreeTextAddress(opts.address),
			PaymentMethod:   domain.PaymentMethod(opts.payment),
			Note:            opts.note,
		})
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed: %s, total %s\n",
			confirmation.Order.ID, confirmation.Order.Status, confirmation.Order.TotalAmount.StringFixed(2))

		if err := coordinator.FetchCart(ctx); err != nil {
			log.Warn("refresh cart after order failed", slog.Any("err", err))
		}
	}

	if err := showInbox(ctx, notifications.NewInbox(client, log), opts.readAll); err != nil {
		log.Warn("inbox unavailable", slog.Any("err", err))
	}

	list, err := history.List(ctx, "")
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	for _, status := range domain.OrderStatuses {
		fmt.Printf("%-10s %d\n", status, list.StatusCounts[status])
	}

	if opts.follow > 0 {
		return follow(ctx, cfg, history, profile.ID, opts.follow, log)
	}
	return nil
}

func ensureLoggedIn(ctx context.Context, sess *session.Session, client *api.Client, opts options) error {
	_, err := sess.Token(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotAuthenticated) && !errors.Is(err, domain.ErrSessionExpired) {
		return err
	}

	token, err := client.Login(ctx, opts.email, opts.password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return sess.Start(ctx, token)
}

func follow(ctx context.Context, cfg config.Config, history *orders.History, userID string, d time.Duration, log *slog.Logger) error {
	if !cfg.KafkaEnabled() {
		return errors.New("following order status needs KAFKA_BROKERS")
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	feed := orders.NewFeed(events.NewReader("storefront-"+userID, cfg.KafkaBrokers...), history, userID,
		func(ev events.OrderStatusChanged) {
			fmt.Printf("order %s is now %s\n", ev.OrderID, ev.Status)
		}, log)
	defer feed.Close()

	log.Info("following order status", slog.Duration("for", d))
	feed.Run(ctx)
	return nil
}

func showInbox(ctx context.Context, inbox *notifications.Inbox, readAll bool) error {
	if err := inbox.Refresh(ctx); err != nil {
		return err
	}
	if readAll && inbox.UnreadCount() > 0 {
		if err := inbox.MarkAllRead(ctx); err != nil {
			return err
		}
	}
	state := inbox.State()
	fmt.Printf("notifications: %d unread\n", state.UnreadCount)
	for _, n := range state.Notifications {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		fmt.Printf("%s %-18s %s\n", marker, n.Title, n.Message)
	}
	return nil
}

func printCart(state domain.CartState) {
	if len(state.Lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range state.Lines {
		fmt.Printf("%-24s x%-3d %10s\n", l.Name, l.Quantity, l.Subtotal().StringFixed(2))
	}
	fmt.Printf("%-28s %10s\n", "total", state.TotalAmount.StringFixed(2))
}
