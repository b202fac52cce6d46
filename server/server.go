package server

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vendra/marketplace/auth"
	"github.com/vendra/marketplace/backend"
	"github.com/vendra/marketplace/store"
)

// SessionCookie is the browser cookie carrying the session token.
const SessionCookie = "market_session"

// Server wires the marketplace stores, session backend and route guard.
type Server struct {
	Config *AppConfig
	Logger *log.Logger

	Accounts     *store.AccountStore
	Roles        *store.RoleAssignmentStore
	Products     *store.ProductStore
	Orders       *store.OrderStore
	Applications *store.VendorApplicationStore
	Invites      *store.InviteCodeStore
	Payouts      *store.PayoutStore
	Pages        *store.PageStore
	Sessions     store.SessionStore
	Carts        store.CartStore

	paths  auth.Paths
	routes *auth.RouteTable
	secret []byte
	ttl    time.Duration
}

// Options groups Server dependencies. DB is required; Sessions/Carts default
// to an in-memory buntdb store when nil (dev mode).
type Options struct {
	Config   *AppConfig
	DB       *gorm.DB
	Sessions store.SessionStore
	Carts    store.CartStore
	Logger   *log.Logger
}

// NewServer builds a Server from options.
func NewServer(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = GetConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sessions := opts.Sessions
	carts := opts.Carts
	if sessions == nil || carts == nil {
		bs, err := store.NewBuntStore(cfg.SessionTTL())
		if err != nil {
			return nil, err
		}
		if sessions == nil {
			sessions = bs
		}
		if carts == nil {
			carts = store.NewBuntCartStore(bs)
		}
	}
	s := &Server{
		Config:       cfg,
		Logger:       logger,
		Accounts:     store.NewAccountStore(opts.DB),
		Roles:        store.NewRoleAssignmentStore(opts.DB),
		Products:     store.NewProductStore(opts.DB),
		Orders:       store.NewOrderStore(opts.DB),
		Applications: store.NewVendorApplicationStore(opts.DB),
		Invites:      store.NewInviteCodeStore(opts.DB),
		Payouts:      store.NewPayoutStore(opts.DB),
		Pages:        store.NewPageStore(opts.DB),
		Sessions:     sessions,
		Carts:        carts,
		paths:        auth.DefaultPaths(),
		secret:       []byte(cfg.Session.JWTSecret),
		ttl:          cfg.SessionTTL(),
	}
	s.routes = DefaultRouteTable()
	return s, nil
}

// DefaultRouteTable declares the per-path role requirements consulted by the
// guard middleware. First match wins, so the customer-level vendor
// application routes precede the vendor back-office prefix.
func DefaultRouteTable() *auth.RouteTable {
	return auth.NewRouteTable(
		auth.RouteRule{Path: "/api/cart/*", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/cart", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/checkout", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/orders", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/orders/*", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/vendor/apply", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/vendor/application", Required: auth.RequireCustomer},
		auth.RouteRule{Path: "/api/vendor/*", Required: auth.RequireVendor},
		auth.RouteRule{Path: "/api/admin/*", Required: auth.RequireAdmin},
	)
}

// OpenGormDB opens the marketplace database.
func OpenGormDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// newBackendClient builds a per-request backend client over the shared
// stores; the HTTP layer restores the browser's token into it before use.
func (s *Server) newBackendClient() *backend.Client {
	return backend.New(backend.Options{
		Accounts:   s.Accounts,
		Roles:      s.Roles,
		Sessions:   s.Sessions,
		JWTSecret:  s.secret,
		SessionTTL: s.ttl,
		Logger:     s.Logger,
	})
}
