package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/webautomy/relay/internal/entities"
)

func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.rules.ListByOrg(c.Request.Context(), getOrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *Handler) CreateRule(c *gin.Context) {
	var payload struct {
		TriggerKeyword string `json:"trigger_keyword"`
		MatchType      string `json:"match_type"`
		ReplyMessage   string `json:"reply_message"`
		IsActive       *bool  `json:"is_active"`
		Priority       int    `json:"priority"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !ValidateLength(payload.TriggerKeyword, 1, MaxKeywordLength) || !ValidateLength(payload.ReplyMessage, 1, MaxReplyLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trigger keyword or reply message"})
		return
	}

	matchType := payload.MatchType
	if matchType != entities.MatchExact {
		matchType = entities.MatchContains
	}
	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	rule, err := h.rules.Create(c.Request.Context(), &entities.AutomationRule{
		OrgID:          getOrgID(c),
		TriggerKeyword: SanitizeString(payload.TriggerKeyword),
		MatchType:      matchType,
		ReplyMessage:   SanitizeString(payload.ReplyMessage),
		IsActive:       active,
		Priority:       payload.Priority,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) DeleteRule(c *gin.Context) {
	ruleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule id"})
		return
	}

	err = h.rules.Delete(c.Request.Context(), getOrgID(c), ruleID)
	if errors.Is(err, entities.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
