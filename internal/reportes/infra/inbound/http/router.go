package http

import "github.com/gin-gonic/gin"

func RegisterReportesRoutes(r gin.IRouter, handler *ReportesHandler) {
	reportes := r.Group("/reportes")
	{
		reportes.GET("/tareas/tendencia", handler.TendenciaTareas)
		reportes.GET("/extintores/vencimientos", handler.VencimientosExtintores)
	}
}
