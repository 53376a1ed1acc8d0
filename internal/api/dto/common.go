package dto

// Response 统一响应包装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageQueryDTO 分页查询参数，PostsViewed 供推荐排序衡量个性化程度
type PageQueryDTO struct {
	Page        int    `form:"page"`
	Size        int    `form:"size"`
	PostsViewed int    `form:"posts_viewed"`
	Keyword     string `form:"keyword"`
}
