package register

import (
	"net/http"

	"github.com/gin-gonic/gin"

	registersvc "github.com/alanyang/folio/internal/service/register"
	"github.com/alanyang/folio/internal/transport/respond"
)

func Register(rg *gin.RouterGroup, svc *registersvc.Service) {
	rg.GET("", listRegisters(svc))
}

func listRegisters(svc *registersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err, respond.Messages{Server: "Failed to fetch admin users"})
			return
		}
		respond.OK(c, http.StatusOK, "Admin login successfully", gin.H{"users": users})
	}
}
