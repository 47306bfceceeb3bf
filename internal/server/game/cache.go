package game

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/data"
)

const characterCacheTTL = 5 * time.Minute

// characterCache keeps per-account character lists hot between the login
// screen round trips, which hammer the list query. Entries expire on their
// own and are invalidated explicitly whenever the list changes.
type characterCache struct {
	cacheInstance *gocache.Cache
}

func newCharacterCache() *characterCache {
	return &characterCache{cacheInstance: gocache.New(characterCacheTTL, 10*time.Second)}
}

func (c *characterCache) get(accountID uint64) ([]data.Character, bool) {
	value, ok := c.cacheInstance.Get(cacheKey(accountID))
	if !ok {
		return nil, false
	}
	return value.([]data.Character), true
}

func (c *characterCache) put(accountID uint64, characters []data.Character) {
	c.cacheInstance.Set(cacheKey(accountID), characters, gocache.DefaultExpiration)
}

func (c *characterCache) invalidate(accountID uint64) {
	c.cacheInstance.Delete(cacheKey(accountID))
}

func cacheKey(accountID uint64) string {
	return strconv.FormatUint(accountID, 10)
}
