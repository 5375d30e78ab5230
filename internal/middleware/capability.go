package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/pkg/cache"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/metrics"
	"github.com/tylerquinn/scoutline/pkg/response"
)

const (
	CtxCapabilityKey = "capability"
	CtxAthleteIDKey  = "athleteID"
)

// Capability is the write permission resolved for a request.
type Capability string

const (
	// CapabilityMutate allows the full read/write surface.
	CapabilityMutate Capability = "mutate"
	// CapabilityReadOnly restricts the request to reads. Parents observe one
	// athlete and never write.
	CapabilityReadOnly Capability = "read_only"
)

// identity is the cached slice of a user row the resolver needs.
type identity struct {
	Role      models.Role
	AthleteID string
}

// defaultIdentityTTL bounds how stale a cached role may be. A demoted or
// relinked account regains fresh semantics within this window.
const defaultIdentityTTL = 30 * time.Second

// CapabilityResolver turns an authenticated user ID into a capability and an
// effective athlete scope, memoising store lookups in a bounded TTL cache.
type CapabilityResolver struct {
	db    *gorm.DB
	cache *cache.TTLCache
	ttl   time.Duration
}

// NewCapabilityResolver constructs a CapabilityResolver.
func NewCapabilityResolver(db *gorm.DB, store *cache.TTLCache) (*CapabilityResolver, error) {
	if db == nil {
		return nil, errors.New("capability resolver: db is required")
	}
	if store == nil {
		return nil, errors.New("capability resolver: cache is required")
	}
	return &CapabilityResolver{db: db, cache: store, ttl: defaultIdentityTTL}, nil
}

// Resolve loads the user's role, from cache when fresh. Inactive or missing
// accounts resolve to an error.
func (r *CapabilityResolver) Resolve(ctx context.Context, userID string) (Capability, string, error) {
	key := "identity:" + userID
	if cached, ok := r.cache.Get(key); ok {
		if id, ok := cached.(identity); ok {
			return capabilityFor(id), athleteScopeFor(userID, id), nil
		}
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Select("id", "role", "athlete_id", "is_active").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apperrors.ErrUnauthorized
		}
		return "", "", fmt.Errorf("capability resolver: load user: %w", err)
	}
	if !user.IsActive {
		return "", "", apperrors.ErrUnauthorized
	}

	id := identity{Role: user.Role}
	if user.AthleteID != nil {
		id.AthleteID = *user.AthleteID
	}
	r.cache.Set(key, id, r.ttl)

	return capabilityFor(id), athleteScopeFor(userID, id), nil
}

// Invalidate drops the cached identity, forcing the next request to re-read.
func (r *CapabilityResolver) Invalidate(userID string) {
	r.cache.Delete("identity:" + userID)
}

func capabilityFor(id identity) Capability {
	if id.Role == models.RoleParent {
		return CapabilityReadOnly
	}
	return CapabilityMutate
}

// athleteScopeFor picks the athlete whose data the request operates on: the
// athlete themself, or for parents the linked athlete. An unlinked parent has
// no scope and every athlete-scoped query returns nothing.
func athleteScopeFor(userID string, id identity) string {
	if id.Role == models.RoleParent {
		return id.AthleteID
	}
	return userID
}

// ResolveCapability resolves the caller's capability exactly once per request
// and stores it in the gin context for handlers and later middleware.
func ResolveCapability(resolver *CapabilityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUserIDKey)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		userID, _ := v.(string)

		capability, athleteID, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			metrics.CapabilityChecks.WithLabelValues("error").Inc()
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxCapabilityKey, capability)
		c.Set(CtxAthleteIDKey, athleteID)
		c.Next()
	}
}

// RequireMutator rejects requests whose resolved capability is read-only.
func RequireMutator() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxCapabilityKey)
		if !ok {
			metrics.CapabilityChecks.WithLabelValues("error").Inc()
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if v.(Capability) != CapabilityMutate {
			metrics.CapabilityChecks.WithLabelValues("denied").Inc()
			response.Error(c, apperrors.ErrReadOnlyRole)
			c.Abort()
			return
		}
		metrics.CapabilityChecks.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
