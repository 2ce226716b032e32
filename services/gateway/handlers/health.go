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
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// connectionProber is implemented by oracle clients that can verify their
// upstream (oracle.Client does).
type connectionProber interface {
	TestConnection(ctx context.Context) bool
}

// HealthCheck handles GET /health. The oracle probe is informational only;
// the service stays healthy with or without AI enrichment.
func HealthCheck(orc oracle.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"service": "vendorsentry",
		}

		switch probe := orc.(type) {
		case nil:
			status["oracle"] = "disabled"
		case connectionProber:
			if probe.TestConnection(c.Request.Context()) {
				status["oracle"] = "connected"
			} else {
				status["oracle"] = "unreachable"
			}
		default:
			status["oracle"] = "configured"
		}

		c.JSON(http.StatusOK, status)
	}
}
