package router

import (
	"github.com/gin-gonic/gin"

	"ai-academy-api/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, promptHandler *handler.PromptHandler) {
	prompts := v1.Group("/prompts")
	{
		prompts.POST("/templates", promptHandler.GenerateTemplate)
		prompts.POST("/evaluations", promptHandler.EvaluatePrompt)
		prompts.GET("/options", promptHandler.GetOptions)
	}
}
