package vast

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachingFetcher keeps successful fetches in memory for a while. Failures are never cached.
type CachingFetcher struct {
	fetcher Fetcher
	cache   *cache.Cache
}

func NewCachingFetcher(fetcher Fetcher, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		fetcher: fetcher,
		cache:   cache.New(ttl, 2*ttl),
	}
}

func (f *CachingFetcher) Fetch(ctx context.Context, uri string, opts Options) (*Manifest, error) {
	key := cacheKey(uri, opts)
	if cached, found := f.cache.Get(key); found {
		if manifest, ok := cached.(*Manifest); ok {
			return manifest, nil
		}
	}

	manifest, err := f.fetcher.Fetch(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	f.cache.SetDefault(key, manifest)
	return manifest, nil
}

// Len is the number of cached manifests, expired ones included until they are cleaned up.
func (f *CachingFetcher) Len() int {
	return f.cache.ItemCount()
}

func cacheKey(uri string, opts Options) string {
	headers := make([]string, 0, len(opts.Headers))
	for name, value := range opts.Headers {
		headers = append(headers, strings.ToLower(name)+":"+value)
	}
	sort.Strings(headers)
	return fmt.Sprintf("%s|%t|%d|%s", uri, opts.ResolveWrappers, opts.MaxRedirects, strings.Join(headers, "\n"))
}
