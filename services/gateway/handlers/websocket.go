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
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

// feedPingInterval keeps idle connections alive through proxies.
const feedPingInterval = 30 * time.Second

// HandleEventFeed handles GET /v1/investigations/feed: it upgrades to a
// websocket and streams every bus record appended after the connection was
// established. An optional ?investigationId= query filters the stream.
func HandleEventFeed(b *bus.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		filterID := c.Query("investigationId")

		records, cancel := b.Subscribe()
		defer cancel()

		// Reader goroutine: its only job is to notice the peer going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(feedPingInterval)
		defer ping.Stop()

		for {
			select {
			case rec, ok := <-records:
				if !ok {
					return
				}
				if filterID != "" && rec.InvestigationID != filterID {
					continue
				}
				if err := ws.WriteJSON(rec); err != nil {
					slog.Warn("failed to write feed record", "error", err)
					return
				}
			case <-ping.C:
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}
