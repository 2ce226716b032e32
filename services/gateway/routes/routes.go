// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/VendorSentry/services/gateway/handlers"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/storage"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

func SetupRoutes(router *gin.Engine, inv handlers.Investigator, store storage.Store,
	b *bus.Bus, orc oracle.Oracle) {

	router.GET("/health", handlers.HealthCheck(orc))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		investigations := v1.Group("/investigations")
		{
			investigations.POST("", handlers.StartInvestigation(inv))
			investigations.GET("", handlers.ListInvestigations(store))
			investigations.GET("/feed", handlers.HandleEventFeed(b))
			investigations.GET("/:id", handlers.GetInvestigation(store))
			investigations.GET("/:id/status", handlers.GetInvestigationStatus(inv))
		}
		v1.POST("/documents/parse", handlers.ParseDocument())
	}
}
