package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/inference"
	"github.com/rushteam/tagkit/recommend"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"artifacts": s.info,
	})
}

func (s *Server) predict(c *gin.Context) {
	var req inference.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, core.NewInvalidInputError(core.ModuleInference, "Content is required"))
		return
	}
	resp, err := s.inference.Predict(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) recommendPosts(c *gin.Context) {
	req, err := recommend.DecodeRequest(c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := s.recommend.Recommend(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
