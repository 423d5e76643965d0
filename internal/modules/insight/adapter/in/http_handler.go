package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	insightin "bjjflow/internal/modules/insight/port/in"
)

type HTTPHandler struct {
	usecase insightin.Usecase
}

func NewHTTPHandler(usecase insightin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

func (h HTTPHandler) Register(router gin.IRouter) {
	router.POST("/api/insight", h.request)
}

// request is bound to the client connection: a client that disconnects
// cancels the generation.
func (h HTTPHandler) request(c *gin.Context) {
	out := h.usecase.Request(c.Request.Context())
	c.JSON(http.StatusOK, out)
}
