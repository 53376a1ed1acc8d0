package consts

const (
	// UserNotifyChannelPrefix 用户级通知的 pub/sub 频道前缀，后接 userID
	UserNotifyChannelPrefix = "user:notify:"
)
