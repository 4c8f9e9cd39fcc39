package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"chirp/internal/adapters/httpapi/middleware"
	"chirp/internal/core/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvatarField is the multipart field carrying the uploaded picture.
const AvatarField = "profilePicture"

type UserController struct {
	uc             UserUseCase
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewUserController(uc UserUseCase, logger *zap.Logger, maxUploadBytes int64) *UserController {
	return &UserController{uc: uc, logger: logger, maxUploadBytes: maxUploadBytes}
}

type credentialsRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.ErrUnauthenticated)
		return
	}
	u, err := ctl.uc.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) UploadProfilePicture(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.ErrUnauthenticated)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctl.maxUploadBytes)
	fh, err := c.FormFile(AvatarField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respondError(c, ctl.logger, errs.Validation("file too large"))
			return
		}
		respondError(c, ctl.logger, errs.Validation("no file uploaded"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	u, err := ctl.uc.SetProfilePicture(c.Request.Context(), userID, data)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
