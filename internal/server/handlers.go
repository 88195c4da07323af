package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/webqa/internal/indexer"
	"github.com/mohammad-safakhou/webqa/internal/metrics"
	"github.com/mohammad-safakhou/webqa/internal/qa"
	"github.com/mohammad-safakhou/webqa/models"
	"github.com/mohammad-safakhou/webqa/session"
	"go.uber.org/zap"
)

type pageIndexer interface {
	Index(ctx context.Context, url string) (indexer.Result, error)
}

type asker interface {
	Ask(ctx context.Context, req qa.AskRequest) (qa.AskResult, error)
}

// QAHandler serves the index, chat and ask endpoints. Domain failures are
// reported as 200 responses with status "error"; only missing parameters
// produce 400.
type QAHandler struct {
	Indexer   pageIndexer
	Responder asker
	Sessions  session.Store
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

func (h *QAHandler) Register(e *echo.Echo) {
	e.POST("/index/", h.index)
	e.POST("/start_chat/", h.startChat)
	e.POST("/ask/", h.ask)
}

func param(c echo.Context, name string) string {
	return strings.TrimSpace(c.FormValue(name))
}

// Index
//
//	@Summary	Fetch a page and store its first sentences
//	@Param		url	query		string	true	"page URL"
//	@Success	200	{object}	models.StatusResponse
//	@Failure	400	{object}	models.StatusResponse
//	@Router		/index/ [post]
func (h *QAHandler) index(c echo.Context) error {
	url := param(c, "url")
	if url == "" {
		return c.JSON(http.StatusBadRequest, models.Error("url is required"))
	}

	res, err := h.Indexer.Index(c.Request().Context(), url)
	if err != nil {
		h.countIndex(models.StatusError)
		msg := err.Error()
		switch {
		case errors.Is(err, indexer.ErrFetchFailed):
			msg = indexer.MsgFetchFailed
		case errors.Is(err, indexer.ErrHostBlocked):
			msg = indexer.ErrHostBlocked.Error()
		}
		h.Logger.Warn("index failed", zap.String("url", url), zap.Error(err))
		return c.JSON(http.StatusOK, models.Error(msg))
	}
	h.countIndex(models.StatusSuccess)
	h.Logger.Debug("index ok", zap.String("url", url), zap.Int("sentences", res.Sentences))
	return c.JSON(http.StatusOK, models.StatusResponse{Status: models.StatusSuccess, Message: indexer.MsgIndexed})
}

// StartChat
//
//	@Summary	Open a chat session with empty history
//	@Success	200	{object}	models.StartChatResponse
//	@Router		/start_chat/ [post]
func (h *QAHandler) startChat(c echo.Context) error {
	id, err := h.Sessions.Create(c.Request().Context())
	if err != nil {
		h.Logger.Error("start chat failed", zap.Error(err))
		return c.JSON(http.StatusOK, models.Error(err.Error()))
	}
	if h.Metrics != nil {
		h.Metrics.SessionsOpen.Inc()
	}
	return c.JSON(http.StatusOK, models.StartChatResponse{Status: models.StatusSuccess, SessionID: id})
}

// Ask
//
//	@Summary	Answer a question about an indexed page
//	@Param		url			query		string	true	"indexed page URL"
//	@Param		question	query		string	true	"question"
//	@Param		session_id	query		string	false	"chat session"
//	@Success	200			{object}	models.AskResponse
//	@Failure	400			{object}	models.StatusResponse
//	@Router		/ask/ [post]
func (h *QAHandler) ask(c echo.Context) error {
	req := qa.AskRequest{
		URL:       param(c, "url"),
		Question:  param(c, "question"),
		SessionID: param(c, "session_id"),
	}
	if req.URL == "" || req.Question == "" {
		return c.JSON(http.StatusBadRequest, models.Error("url and question are required"))
	}
	withSession := "false"
	if req.SessionID != "" {
		withSession = "true"
	}

	res, err := h.Responder.Ask(c.Request().Context(), req)
	if err != nil {
		h.countAsk(models.StatusError, withSession)
		switch {
		case errors.Is(err, qa.ErrNotIndexed), errors.Is(err, qa.ErrInvalidSession):
			h.Logger.Info("ask rejected", zap.String("url", req.URL), zap.Error(err))
		default:
			h.Logger.Error("ask failed", zap.String("url", req.URL), zap.Error(err))
		}
		return c.JSON(http.StatusOK, models.Error(err.Error()))
	}
	h.countAsk(models.StatusSuccess, withSession)
	return c.JSON(http.StatusOK, models.AskResponse{
		Status:      models.StatusSuccess,
		Answer:      res.Answer,
		ChatHistory: res.History,
	})
}

func (h *QAHandler) countIndex(status string) {
	if h.Metrics != nil {
		h.Metrics.IndexTotal.WithLabelValues(status).Inc()
	}
}

func (h *QAHandler) countAsk(status, withSession string) {
	if h.Metrics != nil {
		h.Metrics.AskTotal.WithLabelValues(status, withSession).Inc()
	}
}
