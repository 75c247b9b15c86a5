package main

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/errkit/auth"
	"github.com/kbukum/errkit/auth/password"
	"github.com/kbukum/errkit/errors"
	"github.com/kbukum/errkit/logger"
	"github.com/kbukum/errkit/server"
	"github.com/kbukum/errkit/server/middleware"
	"github.com/kbukum/errkit/validation"
)

// Business error keys defined in error/exception.yml.
const (
	errUserNotFound       = "USER_NOT_FOUND"
	errUserAlreadyExists  = "USER_ALREADY_EXISTS"
	errInvalidCredentials = "INVALID_CREDENTIALS"
	errOrderNotFound      = "ORDER_NOT_FOUND"
	errOrderLocked        = "ORDER_LOCKED"
)

// User is a demo account.
type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Hash     string    `json:"-"`
	Roles    []string  `json:"roles"`
	Created  time.Time `json:"created_at"`
}

// Order belongs to a user. Locked orders reject changes.
type Order struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Locked   bool   `json:"locked"`
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type idParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type updateOrderRequest struct {
	Quantity int `json:"quantity" binding:"min=1,max=100"`
}

// store is an in-memory user and order repository. Passwords are kept only
// as hashes.
type store struct {
	mu     sync.RWMutex
	users  map[string]*User
	orders map[string]*Order
	hasher password.Hasher
	// decoy is verified for unknown emails so both failures cost one hash.
	decoy string
}

func newStore(hasher password.Hasher) (*store, error) {
	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	return &store{
		users:  map[string]*User{},
		orders: map[string]*Order{},
		hasher: hasher,
		decoy:  decoy,
	}, nil
}

func (s *store) createUser(req createUserRequest, roles ...string) (*User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Binding("json", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, errors.Business(errUserAlreadyExists)
		}
	}
	u := &User{
		ID:      uuid.NewString(),
		Email:   req.Email,
		Name:    req.Name,
		Hash:    hash,
		Roles:   roles,
		Created: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *store) user(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errors.Business(errUserNotFound)
	}
	return u, nil
}

func (s *store) authenticate(email, secret string) (*User, error) {
	s.mu.RLock()
	var found *User
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			found = u
			break
		}
	}
	s.mu.RUnlock()

	hash := s.decoy
	if found != nil {
		hash = found.Hash
	}
	if err := s.hasher.Verify(secret, hash); err != nil || found == nil {
		return nil, errors.Business(errInvalidCredentials).WithCause(err)
	}
	return found, nil
}

func (s *store) addOrder(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func (s *store) updateOrder(id, ownerID string, quantity int) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.OwnerID != ownerID {
		return nil, errors.Business(errOrderNotFound)
	}
	if o.Locked {
		return nil, errors.Business(errOrderLocked)
	}
	o.Quantity = quantity
	return o, nil
}

func (s *store) ordersOf(ownerID string, limit int) []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Order{}
	for _, o := range s.orders {
		if o.OwnerID == ownerID && len(out) < limit {
			out = append(out, o)
		}
	}
	return out
}

type handlers struct {
	store    *store
	verifier *auth.Verifier
	log      *logger.Logger
}

// registerRoutes mounts the demo API on srv.
func registerRoutes(srv *server.Server, cfg *AppConfig, log *logger.Logger) error {
	st, err := newStore(password.NewHasher(cfg.Password))
	if err != nil {
		return err
	}
	h := &handlers{store: st, log: log.WithComponent("api")}

	engine := srv.GinEngine()
	api := engine.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}))
	api.Use(middleware.ContentType("application/json"))

	api.POST("/users", h.createUser)
	api.GET("/users/:id", h.getUser)

	if cfg.Auth.Enabled {
		verifier, err := auth.NewVerifier(cfg.Auth)
		if err != nil {
			return fmt.Errorf("auth verifier: %w", err)
		}
		h.verifier = verifier
		api.POST("/auth/token", h.login)

		protected := api.Group("", middleware.Auth(verifier))
		protected.GET("/me/orders", h.listOrders)
		protected.PUT("/me/orders/:id", h.updateOrder)
		protected.GET("/admin/users/:id", middleware.RequireRole("admin"), h.getUser)
	} else {
		h.log.Warn("Auth disabled, protected routes not mounted")
	}

	if cfg.Debug {
		engine.GET("/debug/panic", func(*gin.Context) {
			panic("demo panic")
		})
	}

	// Plain net/http handlers share the resolver through Wrap.
	srv.Handle("GET /legacy/users/{id}", srv.Resolver().Wrap(func(w http.ResponseWriter, r *http.Request) error {
		u, err := h.store.user(r.PathValue("id"))
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err = fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
		return err
	}))
	return nil
}

func (h *handlers) createUser(c *gin.Context) {
	var req createUserRequest
	if err := validation.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	u, err := h.store.createUser(req, "user")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.store.addOrder(&Order{ID: uuid.NewString(), OwnerID: u.ID, Item: "welcome-kit", Quantity: 1})
	h.store.addOrder(&Order{ID: uuid.NewString(), OwnerID: u.ID, Item: "gift-card", Quantity: 1, Locked: true})
	server.RespondCreated(c, u)
}

func (h *handlers) getUser(c *gin.Context) {
	var p idParam
	if err := validation.BindURI(c, &p); err != nil {
		server.RespondWithError(c, err)
		return
	}
	u, err := h.store.user(p.ID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, u)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	u, err := h.store.authenticate(req.Email, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	token, err := h.verifier.Issue(u.ID, u.Roles...)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"token": token, "token_type": "Bearer"})
}

func (h *handlers) listOrders(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	limit, err := validation.QueryInt(c, "limit")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	v := validation.New().Range("limit", limit, 1, 50)
	if err := v.Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.store.ordersOf(claims.Subject, limit))
}

func (h *handlers) updateOrder(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	var p idParam
	if err := validation.BindURI(c, &p); err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req updateOrderRequest
	if err := validation.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	o, err := h.store.updateOrder(p.ID, claims.Subject, req.Quantity)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, o)
}
