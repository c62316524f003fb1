package cli

import (
	"errors"
	"fmt"

	"shopctl/internal/api"
	"shopctl/internal/config"
	"shopctl/internal/guard"
	"shopctl/internal/storage"
	"shopctl/internal/store"
)

// App holds the wired stores and clients shared by all commands.
// Stores are constructed once at startup and passed by reference; the
// durable token slot is the only shared persistence.
type App struct {
	cfg       config.FileConfig
	session   *store.SessionStore
	catalog   *store.ProductStore
	admin     *store.ProductStore
	products  *api.ProductsClient
	admission *guard.Admission
}

// NewApp loads stores against cfg. Constructing the session store
// rehydrates any persisted token and confirms it with the server.
func NewApp(cfg config.FileConfig) (*App, error) {
	timeout, err := config.ParseHTTPTimeout(cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := storage.NewFileTokenStore(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}
	authClient := api.NewAuthClient(cfg.APIBaseURL, timeout)
	session := store.NewSessionStore(authClient, tokens)
	products := api.NewProductsClient(cfg.APIBaseURL, timeout, session.Token)
	return &App{
		cfg:       cfg,
		session:   session,
		catalog:   store.NewCatalogStore(products),
		admin:     store.NewAdminStore(products),
		products:  products,
		admission: guard.New(session),
	}, nil
}

// requireAuth admits the command only with an authenticated session.
func (a *App) requireAuth(target string) error {
	if d := a.admission.RequireAuth(target); !d.Allowed {
		return errors.New("you are not signed in (run: shopctl login)")
	}
	return nil
}

// requireAdmin admits the command only for a confirmed admin session.
func (a *App) requireAdmin(target string) error {
	d := a.admission.RequireAdmin(target)
	if d.Allowed {
		return nil
	}
	if d.RedirectTo == "login" {
		return errors.New("you are not signed in (run: shopctl login)")
	}
	return errors.New("admin role required")
}
