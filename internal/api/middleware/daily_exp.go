package middleware

import (
	log "log/slog"

	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
)

// DailyExpMiddleware 当日首个已认证请求发放活跃经验。
// 发放失败不影响请求本身。
func DailyExpMiddleware(expService service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID != "" {
			if err := expService.GrantDailyLoginExp(c.Request.Context(), userID); err != nil {
				log.WarnContext(c.Request.Context(), "每日经验发放失败", "userID", userID, "err", err)
			}
		}
		c.Next()
	}
}
