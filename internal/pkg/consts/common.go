package consts

// 经验值规则
const (
	ExpPerReaction = 2  // 收到一次点赞/收藏的经验增量
	ExpPerPost     = 15 // 发帖奖励
	ExpDailyLogin  = 10 // 每日首次活跃奖励
)

// 题材数量约束
const (
	MaxUserGenres = 3
	MinPostGenres = 1
	MaxPostGenres = 3
)

// 推荐排序
const (
	// RecommendSaturation 浏览量达到该值后完全转入个性化权重
	RecommendSaturation = 50
	// RecommendBaseWeight 未匹配题材的帖子的保底权重系数
	RecommendBaseWeight = 0.1
)

const (
	UploadKeyPrefix = "uploads/"
	// UploadMaxEdge 图片上传时的最长边像素，超出则等比缩小
	UploadMaxEdge = 1600
)
