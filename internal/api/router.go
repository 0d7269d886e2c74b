package api

import (
	"errors"
	"net/http"
	"strconv"

	"casino-engine/internal/middleware"
	"casino-engine/internal/service"
	tableSvc "casino-engine/internal/service/table"
	appErr "casino-engine/pkg/errors"
	"casino-engine/pkg/logger"
	"casino-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	r.POST("/session", handler.OpenSession)

	v1 := r.Group("/casino/v1")
	v1.Use(middleware.SessionRequired())
	{
		v1.GET("/wallet", handler.GetWallet)
		v1.GET("/round", handler.GetRound)
		v1.POST("/round/abandon", handler.AbandonRound)
		v1.GET("/rounds/history", handler.RoundHistory)

		blackjack := v1.Group("/blackjack")
		{
			blackjack.POST("/deal", handler.BlackjackDeal)
			blackjack.POST("/hit", handler.BlackjackHit)
			blackjack.POST("/stand", handler.BlackjackStand)
			blackjack.POST("/double", handler.BlackjackDouble)
			blackjack.POST("/split", handler.BlackjackSplit)
		}

		roulette := v1.Group("/roulette")
		{
			roulette.POST("/bets", handler.RouletteBet)
			roulette.POST("/clear", handler.RouletteClear)
			roulette.POST("/spin", handler.RouletteSpin)
		}

		baccarat := v1.Group("/baccarat")
		{
			baccarat.POST("/bets", handler.BaccaratBets)
			baccarat.POST("/clear", handler.BaccaratClear)
			baccarat.POST("/deal", handler.BaccaratDeal)
		}
	}

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AdminTokenRequired())
	{
		adminGroup.GET("/table_limits", handler.AdminListTableLimits)
		adminGroup.PUT("/table_limits/:game", handler.AdminUpdateTableLimit)
	}
}

type openSessionBody struct {
	DisplayName string `json:"displayName"`
}

type blackjackDealBody struct {
	Bet int64 `json:"bet" binding:"required,min=1"`
}

type rouletteBetBody struct {
	Category string `json:"category" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,min=1"`
}

type baccaratBetsBody struct {
	Player int64 `json:"player" binding:"min=0"`
	Banker int64 `json:"banker" binding:"min=0"`
	Tie    int64 `json:"tie" binding:"min=0"`
}

type tableLimitBody struct {
	MinBet int64  `json:"minBet" binding:"required,min=1"`
	MaxBet int64  `json:"maxBet" binding:"min=0"`
	Status string `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

func (h *Handler) OpenSession(c *gin.Context) {
	var body openSessionBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.services.Session.Open(c.Request.Context(), body.DisplayName)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *Handler) GetWallet(c *gin.Context) {
	w, err := h.services.Wallet.Get(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, w)
}

func (h *Handler) GetRound(c *gin.Context) {
	state, err := h.services.Round.State(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) AbandonRound(c *gin.Context) {
	state, err := h.services.Round.Abandon(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) RoundHistory(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)
	result, err := h.services.Round.History(c.Request.Context(), playerID(c), page, pageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *Handler) BlackjackDeal(c *gin.Context) {
	var body blackjackDealBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.services.Round.BlackjackDeal(c.Request.Context(), playerID(c), body.Bet)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BlackjackHit(c *gin.Context) {
	state, err := h.services.Round.BlackjackHit(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BlackjackStand(c *gin.Context) {
	state, err := h.services.Round.BlackjackStand(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BlackjackDouble(c *gin.Context) {
	state, err := h.services.Round.BlackjackDouble(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BlackjackSplit(c *gin.Context) {
	state, err := h.services.Round.BlackjackSplit(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) RouletteBet(c *gin.Context) {
	var body rouletteBetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.services.Round.RouletteBet(c.Request.Context(), playerID(c), body.Category, body.Amount)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) RouletteClear(c *gin.Context) {
	state, err := h.services.Round.RouletteClear(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) RouletteSpin(c *gin.Context) {
	state, err := h.services.Round.RouletteSpin(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BaccaratBets(c *gin.Context) {
	var body baccaratBetsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.services.Round.BaccaratBets(c.Request.Context(), playerID(c), body.Player, body.Banker, body.Tie)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BaccaratClear(c *gin.Context) {
	state, err := h.services.Round.BaccaratClear(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BaccaratDeal(c *gin.Context) {
	state, err := h.services.Round.BaccaratDeal(c.Request.Context(), playerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) AdminListTableLimits(c *gin.Context) {
	limits, err := h.services.Table.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, limits)
}

func (h *Handler) AdminUpdateTableLimit(c *gin.Context) {
	var body tableLimitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := h.services.Table.Update(c.Request.Context(), c.Param("game"), tableSvc.MutationParams{
		MinBet: body.MinBet,
		MaxBet: body.MaxBet,
		Status: body.Status,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, limit)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appErr.ErrInsufficientFunds),
		errors.Is(err, appErr.ErrBetLimit),
		errors.Is(err, appErr.ErrInvalidBetCategory),
		errors.Is(err, appErr.ErrInvalidAmount),
		errors.Is(err, appErr.ErrUnknownGame):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErr.ErrInvalidAction),
		errors.Is(err, appErr.ErrRoundInProgress),
		errors.Is(err, appErr.ErrNoActiveRound),
		errors.Is(err, appErr.ErrWrongGame):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErr.ErrRoundBusy):
		response.Error(c, http.StatusLocked, err.Error())
	case errors.Is(err, appErr.ErrPlayerNotFound),
		errors.Is(err, appErr.ErrTableLimitNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErr.ErrTableDisabled):
		response.Error(c, http.StatusForbidden, err.Error())
	default:
		logger.Log.Error("request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}

func playerID(c *gin.Context) int64 {
	return c.GetInt64(middleware.ContextPlayerIDKey)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
