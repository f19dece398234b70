package chat

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	minNameLength = 2
	maxNameLength = 20

	// How many alternatives a NameTakenError carries.
	nameSuggestionCount = 4
)

// Identity is a live user of the chat service. It exists from a successful
// name claim until disconnect (plus the session grace window).
type Identity struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"username"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// NormalizeName produces the canonical form under which display names are
// compared and claimed: trimmed and case folded.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Registry owns the mapping from normalized display name to live Identity.
// Claim performs an atomic check-and-set so two concurrent claims for the
// same name can never both succeed.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*Identity
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Identity)}
}

// Claim validates and reserves a display name, returning the new Identity.
// A name already held by a live Identity fails with a *NameTakenError that
// wraps ErrNameTaken and carries free alternatives.
func (r *Registry) Claim(name string) (*Identity, error) {
	trimmed := strings.TrimSpace(name)
	if n := utf8.RuneCountInString(trimmed); n < minNameLength || n > maxNameLength {
		return nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(trimmed)
	if _, taken := r.byName[key]; taken {
		return nil, &NameTakenError{Name: trimmed, Suggestions: r.suggestionsLocked(trimmed)}
	}

	identity := &Identity{
		ID:          uuid.NewString(),
		DisplayName: trimmed,
		JoinedAt:    time.Now().UTC(),
	}
	r.byName[key] = identity
	return identity, nil
}

// Reattach re-reserves the name of a previously released Identity, keeping
// its ID and JoinedAt. Used by session restore inside the grace window.
func (r *Registry) Reattach(identity *Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeName(identity.DisplayName)
	if existing, taken := r.byName[key]; taken && existing.ID != identity.ID {
		return ErrNameTaken
	}
	r.byName[key] = identity
	return nil
}

// Release frees the identity's name for reuse. Idempotent; releasing an
// identity whose name has since been claimed by someone else is a no-op.
func (r *Registry) Release(identity *Identity) {
	if identity == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeName(identity.DisplayName)
	if existing, ok := r.byName[key]; ok && existing.ID == identity.ID {
		delete(r.byName, key)
	}
}

// Lookup resolves a display name to its live Identity, if any.
func (r *Registry) Lookup(name string) (*Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byName[NormalizeName(name)]
	return identity, ok
}

// suggestionsLocked generates free alternatives for a taken name by appending
// random numeric suffixes. Suffix collisions with other live names are
// skipped, so fewer than nameSuggestionCount entries may come back under
// pathological contention.
func (r *Registry) suggestionsLocked(name string) []string {
	suggestions := make([]string, 0, nameSuggestionCount)
	seen := make(map[string]struct{}, nameSuggestionCount)

	for attempts := 0; len(suggestions) < nameSuggestionCount && attempts < nameSuggestionCount*8; attempts++ {
		candidate := name + randomSuffix()
		key := strings.ToLower(candidate)
		if utf8.RuneCountInString(candidate) > maxNameLength {
			// Keep the suffix, trim the base.
			base := []rune(name)
			suffix := candidate[len(name):]
			keep := maxNameLength - len(suffix)
			if keep < minNameLength {
				break
			}
			candidate = string(base[:keep]) + suffix
			key = strings.ToLower(candidate)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if _, taken := r.byName[key]; taken {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, candidate)
	}
	return suggestions
}

// randomSuffix returns a 2-3 digit suffix, mirroring the convention users
// themselves reach for when a name is taken.
func randomSuffix() string {
	return strconv.Itoa(10 + rand.Intn(990))
}
