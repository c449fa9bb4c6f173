package directory

import (
	"context"
	"log"
	"time"

	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/store/redisstore"
)

// Identity is the resolved display view of a user.
type Identity struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	Specialization string `json:"specialization,omitempty"`
}

const resolverCacheTTL = 5 * time.Minute

// Resolver turns user ids into display identities. The fallback policy lives
// here and nowhere else: lookups degrade to placeholder names, they never
// fail the caller.
type Resolver struct {
	repo  *Repo
	cache *redisstore.Store
}

// NewResolver builds a resolver; cache may be nil, in which case every
// lookup hits the directory.
func NewResolver(repo *Repo, cache *redisstore.Store) *Resolver {
	return &Resolver{repo: repo, cache: cache}
}

// Resolve returns the identity for a user id, with a placeholder name when
// the lookup misses or errors. roleHint names the degraded identity when the
// caller knows what kind of participant it expects; pass "" when unknown.
func (r *Resolver) Resolve(ctx context.Context, userID string, roleHint Role) Identity {
	if userID == chat.SenderAI {
		return Identity{ID: userID, Name: "AI Assistant"}
	}

	key := "identity:" + userID
	var cached Identity
	if err := r.cache.GetJSON(ctx, key, &cached); err == nil && cached.Name != "" {
		return cached
	}

	u, err := r.repo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("identity lookup degraded user=%s err=%v", userID, err)
		return Identity{ID: userID, Name: placeholderName(roleHint), Role: roleHint}
	}

	id := Identity{ID: u.ID, Name: u.Name, Role: u.Role, Specialization: u.Specialization}
	if err := r.cache.SetJSON(ctx, key, id, resolverCacheTTL); err != nil {
		log.Printf("identity cache write failed user=%s err=%v", userID, err)
	}
	return id
}

// DisplayName is the common single-field case, used by the transcript layer
// where the caller has no role context.
func (r *Resolver) DisplayName(ctx context.Context, userID string) string {
	return r.Resolve(ctx, userID, "").Name
}

func placeholderName(role Role) string {
	switch role {
	case RoleDoctor:
		return "Doctor"
	case RolePatient:
		return "Patient"
	default:
		return "Unknown User"
	}
}
