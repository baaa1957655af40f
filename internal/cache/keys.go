package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix = "post:%d"

	PostTTL = 30 * time.Minute
)

// PostKey returns the cache key for a post detail entry.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// InvalidatePost drops the cached detail entry for the post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
