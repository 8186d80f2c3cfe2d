package project

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte        = 1024 * 1024
	listCacheSize   = 8 * megabyte
	allProjectsKey  = "projects::all"
	defaultCacheTTL = time.Minute
)

// ListCache keeps the full, unfiltered project list between mutations.
type ListCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func NewListCache(ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ListCache{
		cache: freecache.NewCache(listCacheSize),
		ttl:   ttl,
	}
}

func (c *ListCache) Get() ([]Project, bool) {
	projectsBytes, err := c.cache.Get([]byte(allProjectsKey))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("get projects from cache: %s", err)
		}
		return nil, false
	}

	var projects []Project
	if err := json.Unmarshal(projectsBytes, &projects); err != nil {
		log.Errorf("failed to unmarshal projects from cache: %s", err)
		return nil, false
	}

	return projects, true
}

func (c *ListCache) Set(projects []Project) {
	projectsBytes, err := json.Marshal(projects)
	if err != nil {
		log.Errorf("failed to marshal projects for cache: %s", err)
		return
	}

	expireSeconds := max(1, int(c.ttl.Seconds()))
	if err := c.cache.Set([]byte(allProjectsKey), projectsBytes, expireSeconds); err != nil {
		log.Errorf("failed to write projects cache: %s", err)
		return
	}
	log.Tracef("projects cache set, %d projects", len(projects))
}

func (c *ListCache) Invalidate() {
	c.cache.Del([]byte(allProjectsKey))
}
