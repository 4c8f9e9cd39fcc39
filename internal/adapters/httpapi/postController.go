package httpapi

import (
	"net/http"

	"chirp/internal/adapters/httpapi/middleware"
	"chirp/internal/adapters/metrics"
	"chirp/internal/core/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc      PostUseCase
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPostController(pc PostUseCase, logger *zap.Logger, m *metrics.Metrics) *PostController {
	return &PostController{pc: pc, logger: logger, metrics: m}
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	posts, err := ctl.pc.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.ErrUnauthenticated)
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), req.Content, userID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	ctl.metrics.PostCreated(string(res.Kind))
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) Repost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.ErrUnauthenticated)
		return
	}
	res, err := ctl.pc.Repost(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	ctl.metrics.PostCreated(string(res.Kind))
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) LikePost(c *gin.Context) {
	like, err := ctl.pc.LikePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	ctl.metrics.Liked()
	c.JSON(http.StatusOK, like)
}

// GetProfile serves a user's public record with the posts they authored.
func (ctl *PostController) GetProfile(c *gin.Context) {
	profile, err := ctl.pc.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
