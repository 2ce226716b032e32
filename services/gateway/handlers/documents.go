// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/VendorSentry/services/gateway/observability"
	"github.com/AleutianAI/VendorSentry/services/ingest"
)

// maxDocumentBytes caps parseable document text. OCR output beyond this is
// almost certainly garbage input.
const maxDocumentBytes = 1 << 20

// ParseDocumentRequest carries raw document text for field extraction.
type ParseDocumentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParseDocument handles POST /v1/documents/parse: it extracts submission
// fields from raw document text and returns both the per-field confidence
// view and a ready-to-submit submission object.
func ParseDocument() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParseDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parse request: " + err.Error()})
			return
		}
		if len(req.Text) > maxDocumentBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "document text exceeds 1MB limit"})
			return
		}

		parsed := ingest.ParseVendorDocument(req.Text)
		if m := observability.DefaultMetrics; m != nil {
			m.RecordDocumentParsed()
		}

		c.JSON(http.StatusOK, gin.H{
			"fields":     parsed,
			"submission": parsed.ToSubmission(),
		})
	}
}
