package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.QuizStore = (*QuizCache)(nil)

// QuizCache caches quizzes from a slower backing store with TTL to avoid repeated DB hits.
// Only the immutable content is served from cache: the active flag is read from the
// backing store on every Get, since other instances may toggle it.
// Writes go through to the backing store and refresh the cached entry.
type QuizCache struct {
	backing app.QuizStore
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group

	mu       sync.RWMutex
	rnd      *rand.Rand
	cache    map[string]cachedQuiz
	versions map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(backing app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		backing:  backing,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[string]cachedQuiz),
		versions: make(map[string]uint64),
	}
}

func (c *QuizCache) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	entry, ok := c.cache[quizID]
	c.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		active, err := c.backing.IsActive(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		quiz := entry.quiz
		quiz.Active = active
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		c.mu.RLock()
		version := c.versions[quizID]
		c.mu.RUnlock()

		quiz, err := c.backing.Get(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		// a write that landed during the load wins over what we read
		if c.versions[quizID] == version {
			c.storeLocked(quiz, c.clock())
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) IsActive(ctx context.Context, quizID string) (bool, error) {
	return c.backing.IsActive(ctx, quizID)
}

// List always reads the backing store so newly created quizzes from other instances show up.
func (c *QuizCache) List(ctx context.Context) ([]domain.Quiz, error) {
	return c.backing.List(ctx)
}

func (c *QuizCache) Put(ctx context.Context, quiz domain.Quiz) error {
	if err := c.backing.Put(ctx, quiz); err != nil {
		return err
	}
	c.mu.Lock()
	c.versions[quiz.ID]++
	c.storeLocked(quiz, c.clock())
	c.mu.Unlock()
	return nil
}

func (c *QuizCache) SetActive(ctx context.Context, quizID string, active bool) error {
	if err := c.backing.SetActive(ctx, quizID, active); err != nil {
		return err
	}
	c.mu.Lock()
	c.versions[quizID]++
	delete(c.cache, quizID)
	c.mu.Unlock()
	return nil
}

func (c *QuizCache) storeLocked(quiz domain.Quiz, now time.Time) {
	if c.ttl <= 0 {
		return
	}
	c.cache[quiz.ID] = cachedQuiz{
		quiz:      quiz,
		expiresAt: now.Add(c.ttlWithJitterLocked()),
	}
}

func (c *QuizCache) ttlWithJitterLocked() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
