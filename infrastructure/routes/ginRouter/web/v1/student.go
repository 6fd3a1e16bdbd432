package routev1

import (
	"campuspass.io/application/controller"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

func StudentRouter(router *gin.RouterGroup) {
	studentRouter := router.Group("/students")
	{
		studentRouter.GET("/:id", func(ctx *gin.Context) {
			body := dto.FetchStudentDTO{
				StudentID: ctx.Param("id"),
			}
			controller.FetchStudent(&interfaces.ApplicationContext[dto.FetchStudentDTO]{
				Ctx:  ctx,
				Body: &body,
			})
		})
	}
}
