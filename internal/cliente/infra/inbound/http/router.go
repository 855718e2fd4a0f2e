package http

import "github.com/gin-gonic/gin"

func RegisterClienteRoutes(r gin.IRouter, handler *ClienteHandler) {
	clientes := r.Group("/clientes")
	{
		clientes.POST("", handler.CreateCliente)
		clientes.GET("", handler.ListClientes)
		clientes.GET("/table", handler.TableClientes)
		clientes.GET("/export", handler.ExportClientes)
		clientes.POST("/actions/:action/:id", handler.InvokeCliente)
		clientes.GET("/:id", handler.GetCliente)
		clientes.PUT("/:id", handler.UpdateCliente)
		clientes.DELETE("/:id", handler.DeleteCliente)
	}

	sucursales := r.Group("/sucursales")
	{
		sucursales.POST("", handler.CreateSucursal)
		sucursales.GET("", handler.ListSucursales)
		sucursales.GET("/table", handler.TableSucursales)
		sucursales.GET("/export", handler.ExportSucursales)
		sucursales.GET("/:id", handler.GetSucursal)
	}
}
