package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Draft is the working image prompt for an active chat session. It lives in
// memory only; the persisted chat messages are the durable record.
type Draft struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Prompt    string `json:"prompt"`
	Revision  int    `json:"revision"`
}

type DraftRepository struct {
	cache *cache.Cache
}

func NewDraftRepository() *DraftRepository {
	// Drafts expire after an hour of inactivity; expired entries are purged
	// every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &DraftRepository{
		cache: c,
	}
}

func (r *DraftRepository) Save(draft *Draft) {
	r.cache.Set(draft.SessionID, draft, cache.DefaultExpiration)
}

func (r *DraftRepository) Get(sessionID string) (*Draft, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*Draft), true
	}
	return nil, false
}

func (r *DraftRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
