package http

import "github.com/gin-gonic/gin"

func RegisterPreferencesRoutes(r gin.IRouter, handler *PreferencesHandler) {
	prefs := r.Group("/preferences")
	{
		prefs.GET("", handler.GetPreferences)
		prefs.PUT("", handler.UpdatePreferences)
	}
}
