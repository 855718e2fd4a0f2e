package http

import "github.com/gin-gonic/gin"

// RegisterTareaRoutes registra las rutas HTTP del contexto de tareas.
func RegisterTareaRoutes(r gin.IRouter, handler *TareaHandler) {
	tareas := r.Group("/tareas")
	{
		tareas.POST("", handler.CreateTarea)
		tareas.GET("", handler.ListTareas)
		tareas.GET("/table", handler.TableTareas)
		tareas.GET("/export", handler.ExportTareas)
		tareas.GET("/asignado/:id", handler.ListByAsignado)
		tareas.POST("/actions/:action/:id", handler.InvokeTarea)
		tareas.GET("/:id", handler.GetTarea)
		tareas.PUT("/:id", handler.UpdateTarea)
		tareas.DELETE("/:id", handler.DeleteTarea)
		tareas.POST("/:id/completar", handler.CompleteTarea)
		tareas.POST("/:id/fallar", handler.FailTarea)
	}
}
