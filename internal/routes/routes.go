package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rajeshkrishnamoorthy045/taskmanager/docs"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/handlers"
)

func RegisterRoutes(r *gin.Engine, h *handlers.TaskHandler) {
	r.GET("/health", h.Health)

	tasks := r.Group("/tasks")
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.GET("/export", h.ExportTasks)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
