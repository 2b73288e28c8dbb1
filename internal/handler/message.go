package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sayso-interpreter/internal/middleware"
	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service"
)

// MessageHandler 处理消息解析相关 HTTP 请求
type MessageHandler struct {
	svc *service.MessageService
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Parse 只解析不执行
// POST /api/v1/parse
func (h *MessageHandler) Parse(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	resp, err := h.svc.Parse(requestContext(c), req)
	if err != nil {
		writeError(c, resp.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Message 解析并交给执行器
// POST /api/v1/message
func (h *MessageHandler) Message(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	resp, err := h.svc.Process(requestContext(c), req)
	if err != nil {
		writeError(c, resp.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Intents 列出已加载的意图
// GET /api/v1/intents
func (h *MessageHandler) Intents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"intents": h.svc.Intents()})
}

func bindRequest(c *gin.Context) (model.MessageRequest, bool) {
	var req model.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"request_id": c.GetString(middleware.RequestIDKey),
			"error":      model.ErrInvalidRequest.Error() + ": " + err.Error(),
		})
		return req, false
	}
	return req, true
}

func requestContext(c *gin.Context) context.Context {
	return service.WithRequestID(c.Request.Context(), c.GetString(middleware.RequestIDKey))
}

func writeError(c *gin.Context, requestID string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidRequest) {
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"request_id": requestID,
		"error":      err.Error(),
	})
}
