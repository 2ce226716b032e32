// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the gateway's HTTP handlers.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/VendorSentry/services/gateway/observability"
	"github.com/AleutianAI/VendorSentry/services/investigation"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/investigation/storage"
)

// Investigator runs the vendor investigation pipeline. Implemented by
// investigation.Coordinator; abstracted for handler tests.
type Investigator interface {
	Investigate(ctx context.Context, sub datatypes.Submission) (datatypes.Investigation, error)
	Status(investigationID string) []investigation.AgentStatus
}

// StartInvestigation handles POST /v1/investigations.
//
// The request body is a vendor submission; the response is the complete
// investigation record including the risk report and side-channel log.
func StartInvestigation(inv Investigator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub datatypes.Submission
		if err := c.ShouldBindJSON(&sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission payload: " + err.Error()})
			return
		}

		result, err := inv.Investigate(c.Request.Context(), sub)
		if err != nil {
			slog.Error("investigation pipeline error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "investigation failed"})
			return
		}

		if m := observability.DefaultMetrics; m != nil {
			m.RecordInvestigation(string(result.Recommendation),
				result.Error != "", result.Duration.Seconds(), result.RiskScore)
			for _, res := range result.Results.All() {
				m.RecordCheckerScore(res.Agent, res.Score)
			}
		}

		c.JSON(http.StatusOK, result)
	}
}

// ListInvestigations handles GET /v1/investigations, newest first.
func ListInvestigations(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := store.List(c.Request.Context())
		if err != nil {
			slog.Error("failed to list investigations", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list investigations"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"investigations": list, "count": len(list)})
	}
}

// GetInvestigation handles GET /v1/investigations/:id.
func GetInvestigation(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		inv, err := store.Get(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investigation not found", "id": id})
			return
		}
		if err != nil {
			slog.Error("failed to load investigation", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investigation"})
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// GetInvestigationStatus handles GET /v1/investigations/:id/status,
// returning per-agent progress derived from the activity log.
func GetInvestigationStatus(inv Investigator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		c.JSON(http.StatusOK, gin.H{
			"investigationId": id,
			"agents":          inv.Status(id),
		})
	}
}
