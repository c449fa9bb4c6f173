package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CijeTheCreator/consultify/internal/common"
)

// failFromErr maps service errors onto the wire contract: validation 400,
// not found 404, conflict 409, everything else an opaque 500.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		common.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		common.Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrConflict):
		common.Fail(c, http.StatusConflict, err.Error())
	default:
		log.Printf("request failed path=%s err=%v", c.FullPath(), err)
		common.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
