// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/userdock/userdock/internal/cache"
	"github.com/userdock/userdock/internal/metrics"
	"github.com/userdock/userdock/internal/model"
	"github.com/userdock/userdock/internal/repository"
)

// Service errors.
var (
	ErrMissingFields = errors.New("missing name or email")
	ErrUserNotFound  = errors.New("user not found")
)

// UserStore defines the persistence operations the service depends on.
// *repository.Repository satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	InsertUser(ctx context.Context, name, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, patch repository.UserPatch) error
	DeleteUser(ctx context.Context, id int64) error
}

// ListCache defines the listing cache operations the service depends on.
// *cache.Cache satisfies it.
type ListCache interface {
	GetUserList(ctx context.Context) ([]model.User, error)
	SetUserList(ctx context.Context, users []model.User, ttl time.Duration) error
	InvalidateUserList(ctx context.Context) error
}

// AuditPublisher records committed mutations. May be nil when auditing is disabled.
type AuditPublisher interface {
	PublishAsync(action string, userID int64, occurredAt time.Time)
}

// UserService orchestrates the store and the listing cache.
//
// Consistency protocol: every mutation commits to the store first and only
// then invalidates the cached listing. A list read that raced the mutation
// may repopulate the cache with a pre-mutation snapshot after the
// invalidation ran; that entry serves stale data until its TTL expires, so
// the staleness of any served listing is bounded by the configured TTL.
// Reads that start after the invalidation completes and do not race another
// writer observe the mutation immediately.
type UserService struct {
	store   UserStore
	cache   ListCache
	listTTL time.Duration
	audit   AuditPublisher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, listCache ListCache, listTTL time.Duration, recorder metrics.Recorder, audit AuditPublisher, logger *slog.Logger) *UserService {
	if listTTL <= 0 {
		listTTL = cache.DefaultListTTL
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		cache:   listCache,
		listTTL: listTTL,
		audit:   audit,
		metrics: recorder,
		logger:  logger.With("component", "service.user"),
	}
}

// Create validates and persists a new user, then invalidates the cached
// listing. The created user carries its store-assigned id.
func (s *UserService) Create(ctx context.Context, name, email string) (*model.User, error) {
	if name == "" || email == "" {
		return nil, ErrMissingFields
	}

	user, err := s.store.InsertUser(ctx, name, email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.invalidateListing(ctx)
	s.metrics.IncUserCreated()
	s.publishAudit(model.AuditActionCreated, user.ID)

	return user, nil
}

// List returns the full user listing, cache-first.
// A cached listing is returned verbatim. On miss the listing is read from
// the store and the cache repopulated with the configured TTL. Cache
// failures degrade to a store read; they never fail the request.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveListDuration(time.Since(start))
	}()

	users, err := s.cache.GetUserList(ctx)
	if err == nil {
		s.metrics.IncListCacheHit()
		return users, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache unreachable: treat as a miss, the store is authoritative.
		s.logger.Warn("listing cache read failed", "error", err)
	}
	s.metrics.IncListCacheMiss()

	users, err = s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	if err := s.cache.SetUserList(ctx, users, s.listTTL); err != nil {
		s.logger.Warn("failed to repopulate listing cache", "error", err)
	}

	return users, nil
}

// Get retrieves a single user by id. Single-record reads bypass the cache.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// Update applies the supplied fields to an existing user and invalidates the
// cached listing. Fields absent from the patch are left untouched.
func (s *UserService) Update(ctx context.Context, id int64, patch repository.UserPatch) error {
	if patch.IsEmpty() {
		return ErrMissingFields
	}

	// Existence probe before mutating, so a failed update never reaches the
	// cache transition below.
	if _, err := s.store.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("check user: %w", err)
	}

	if err := s.store.UpdateUser(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}

	s.invalidateListing(ctx)
	s.metrics.IncUserUpdated()
	s.publishAudit(model.AuditActionUpdated, id)

	return nil
}

// Delete removes a user and invalidates the cached listing.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("check user: %w", err)
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.invalidateListing(ctx)
	s.metrics.IncUserDeleted()
	s.publishAudit(model.AuditActionDeleted, id)

	return nil
}

// invalidateListing drops the cached listing after a committed store write.
// The cache is an optimization, not a correctness dependency: an unreachable
// cache is logged and swallowed, and the entry ages out via its TTL.
func (s *UserService) invalidateListing(ctx context.Context) {
	if err := s.cache.InvalidateUserList(ctx); err != nil {
		s.logger.Warn("failed to invalidate listing cache", "error", err)
	}
}

func (s *UserService) publishAudit(action string, userID int64) {
	if s.audit == nil {
		return
	}
	s.audit.PublishAsync(action, userID, time.Now().UTC())
}
