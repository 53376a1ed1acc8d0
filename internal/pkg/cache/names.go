package cache

import "time"

// 缓存名（命名空间）。分页列表统一拆成 *Content / *Count 两个命名空间：
// 内容按页参数缓存，总数按列表范围缓存，互不牵连地失效。
const (
	PostsContent        = "postsContent"
	PostsCount          = "postsCount"
	UserPostsContent    = "userPostsContent"
	UserPostsCount      = "userPostsCount"
	LikedPostsContent   = "likedPostsContent"
	LikedPostsCount     = "likedPostsCount"
	StarredPostsContent = "starredPostsContent"
	StarredPostsCount   = "starredPostsCount"
	SearchContent       = "searchContent"
	SearchCount         = "searchCount"
	SinglePost          = "singlePost"
	CommentContent      = "commentContent"
	CommentCount        = "commentCount"
	AllComments         = "allComments"
	PostLikes           = "postLikes"
	PostStars           = "postStars"
	CommentLikes        = "commentLikes"
	UserGenres          = "userGenres"
	PostGenres          = "postGenres"
)

// TTL 按数据易变程度分档：TTL 只是兜底，主失效手段是写路径的显式驱逐
const (
	ttlDefault = 10 * time.Minute
	ttlLong    = 30 * time.Minute // 聚合计数、单帖详情
	ttlMedium  = 15 * time.Minute // 按用户的状态/偏好类查询
	ttlShort   = 5 * time.Minute  // 频繁变动的列表内容
)

var ttlByName = map[string]time.Duration{
	PostsCount:          ttlLong,
	UserPostsCount:      ttlLong,
	LikedPostsCount:     ttlLong,
	StarredPostsCount:   ttlLong,
	SearchCount:         ttlLong,
	SinglePost:          ttlLong,
	PostLikes:           ttlMedium,
	PostStars:           ttlMedium,
	CommentLikes:        ttlMedium,
	UserGenres:          ttlMedium,
	PostGenres:          ttlMedium,
	PostsContent:        ttlShort,
	UserPostsContent:    ttlShort,
	LikedPostsContent:   ttlShort,
	StarredPostsContent: ttlShort,
	SearchContent:       ttlShort,
	CommentContent:      ttlShort,
	CommentCount:        ttlShort,
	AllComments:         ttlShort,
}

// TTLFor 返回缓存名对应的过期档位
func TTLFor(name string) time.Duration {
	if ttl, ok := ttlByName[name]; ok {
		return ttl
	}
	return ttlDefault
}
