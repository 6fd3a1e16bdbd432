package routev1

import (
	"campuspass.io/application/controller"
	"campuspass.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

func SessionRouter(router *gin.RouterGroup) {
	sessionRouter := router.Group("/sessions")
	{
		sessionRouter.POST("/", func(ctx *gin.Context) {
			controller.StartSession(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		sessionRouter.GET("/active", func(ctx *gin.Context) {
			controller.GetActiveSession(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		sessionRouter.POST("/active/reset", func(ctx *gin.Context) {
			controller.ResetSession(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})
	}
}
