package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/floramarket/storefront/config"
	httpDelivery "github.com/floramarket/storefront/internal/delivery/http"
	"github.com/floramarket/storefront/internal/domain"
	"github.com/floramarket/storefront/internal/infrastructure/commerce"
	"github.com/floramarket/storefront/internal/infrastructure/storage"
	"github.com/floramarket/storefront/internal/usecase"
)

// logNotifier routes store notifications to the process log. The UI
// consuming the gateway renders its own toasts from responses.
type logNotifier struct{}

func (logNotifier) ProductAdded(p domain.Product) {
	log.Printf("[NOTIFY] added to cart: %s", p.Name)
}

func (logNotifier) Toast(message string) {
	log.Printf("[NOTIFY] %s", message)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Storefront Gateway v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Commerce API: %s", cfg.API.BaseURL)

	kv, err := storage.NewFileStore(afero.NewOsFs(), cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("Failed to open storage at %s: %v", cfg.Storage.Dir, err)
	}
	log.Printf("Storage: %s", cfg.Storage.Dir)

	client := commerce.NewClient(cfg.API.BaseURL, cfg.Analytics.PerMinute)
	client.SetTimeout(cfg.API.Timeout)
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("Commerce client debug mode enabled")
	}

	// The stored credential is an opaque presence flag: present means
	// favorites are fetched as "mine", absent falls back to the saved
	// guest email.
	credential := usecase.NewPersistedStore(kv, "auth.credential", func() string { return "" }).Read()
	email := usecase.NewPersistedStore(kv, "user.email", func() string { return "" }).Read()
	if credential != "" {
		client.SetCredential(credential)
	}

	notifier := logNotifier{}
	searchConfig := usecase.SearchConfig{Threshold: cfg.Search.Threshold}

	catalog := usecase.NewCatalog(client, searchConfig)
	cart := usecase.NewCartStore(kv, client, notifier)
	compare := usecase.NewCompareStore(kv, cfg.Compare.Limit)
	favorites := usecase.NewFavoritesStore(client, notifier, domain.FavoritesQuery{
		Mine:  credential != "",
		Email: email,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := catalog.Load(ctx); err != nil {
		log.Printf("WARNING: catalog load failed, starting empty: %v", err)
	}
	if credential != "" || email != "" {
		if err := favorites.Reload(ctx); err != nil {
			log.Printf("WARNING: favorites load failed: %v", err)
		}
	}

	log.Printf("Search: threshold=%.2f, compare limit=%d", cfg.Search.Threshold, cfg.Compare.Limit)

	handler := httpDelivery.NewHandler(catalog, cart, compare, favorites, client)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Gateway listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
