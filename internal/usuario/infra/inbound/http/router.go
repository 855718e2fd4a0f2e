package http

import "github.com/gin-gonic/gin"

func RegisterUsuarioRoutes(r gin.IRouter, handler *UsuarioHandler) {
	usuarios := r.Group("/usuarios")
	{
		usuarios.POST("", handler.CreateUsuario)
		usuarios.GET("", handler.ListUsuarios)
		usuarios.GET("/table", handler.TableUsuarios)
		usuarios.GET("/export", handler.ExportUsuarios)
		usuarios.POST("/actions/:action/:id", handler.InvokeUsuario)
		usuarios.GET("/:id", handler.GetUsuario)
		usuarios.PUT("/:id", handler.UpdateUsuario)
		usuarios.DELETE("/:id", handler.DeleteUsuario)
	}
}
