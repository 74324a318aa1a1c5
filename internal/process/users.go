package process

import (
	"os/user"
	"strconv"
	"sync"
)

// UserCache resolves uids to account names through os/user and remembers
// both hits and misses for the life of the program.
type UserCache struct {
	lookup func(uid string) (*user.User, error)

	mu    sync.RWMutex
	names map[uint32]string
	miss  map[uint32]struct{}
}

// NewUserCache returns a UserCache backed by the system account database.
func NewUserCache() *UserCache {
	return newUserCache(user.LookupId)
}

func newUserCache(lookup func(string) (*user.User, error)) *UserCache {
	return &UserCache{
		lookup: lookup,
		names:  make(map[uint32]string),
		miss:   make(map[uint32]struct{}),
	}
}

// LookupUser implements UserResolver.
func (c *UserCache) LookupUser(uid uint32) (string, bool) {
	c.mu.RLock()
	name, hit := c.names[uid]
	_, missed := c.miss[uid]
	c.mu.RUnlock()
	if hit {
		return name, true
	}
	if missed {
		return "", false
	}

	u, err := c.lookup(strconv.FormatUint(uint64(uid), 10))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil || u == nil || u.Username == "" {
		c.miss[uid] = struct{}{}
		return "", false
	}
	c.names[uid] = u.Username
	return u.Username, true
}
