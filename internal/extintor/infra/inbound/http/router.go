package http

import "github.com/gin-gonic/gin"

func RegisterExtintorRoutes(r gin.IRouter, handler *ExtintorHandler) {
	extintores := r.Group("/extintores")
	{
		extintores.POST("", handler.CreateExtintor)
		extintores.GET("", handler.ListExtintores)
		extintores.GET("/table", handler.TableExtintores)
		extintores.GET("/export", handler.ExportExtintores)
		extintores.POST("/actions/:action/:id", handler.InvokeExtintor)
		extintores.GET("/:id", handler.GetExtintor)
		extintores.PUT("/:id", handler.UpdateExtintor)
		extintores.DELETE("/:id", handler.DeleteExtintor)
		extintores.POST("/:id/recargar", handler.Recargar)
	}
}
