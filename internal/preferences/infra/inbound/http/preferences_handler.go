package http

import (
	"net/http"

	"github.com/davicafu/matafuegos/internal/preferences/application"
	"github.com/davicafu/matafuegos/internal/preferences/domain"
	"github.com/davicafu/matafuegos/pkg/utils"

	"github.com/gin-gonic/gin"
)

var errorMapping = utils.ErrorMapping{
	domain.ErrInvalidSettings:     http.StatusBadRequest,
	application.ErrNotInitialized: http.StatusServiceUnavailable,
}

type PreferencesHandler struct {
	store *application.Store
}

func NewPreferencesHandler(store *application.Store) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

// GetPreferences endpoint GET /preferences
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, h.store.Get())
}

// UpdatePreferences endpoint PUT /preferences. Los campos omitidos no cambian.
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var req struct {
		Theme        *string `json:"theme"`
		Language     *string `json:"language"`
		ItemsPerPage *int    `json:"items_per_page"`
		DateFormat   *string `json:"date_format"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	s, err := h.store.Update(c.Request.Context(), func(s *domain.Settings) {
		if req.Theme != nil {
			s.Theme = domain.Theme(*req.Theme)
		}
		if req.Language != nil {
			s.Language = *req.Language
		}
		if req.ItemsPerPage != nil {
			s.ItemsPerPage = *req.ItemsPerPage
		}
		if req.DateFormat != nil {
			s.DateFormat = *req.DateFormat
		}
	})
	if err != nil {
		utils.SendMappedError(c, err, errorMapping)
		return
	}
	utils.SendSuccess(c, http.StatusOK, s)
}
