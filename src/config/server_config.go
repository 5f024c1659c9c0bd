package config

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"newscorr/src/datamodels"
	"newscorr/src/utils/general"
)

const wsBufferSize = 4096

// NewWSConfig builds the report stream upgrader. With no allowed origins
// every origin may subscribe.
func NewWSConfig(serverConfig datamodels.ServerConfig) datamodels.WSConfig {
	allowed := make([]string, 0, len(serverConfig.AllowedOrigins))
	for _, origin := range serverConfig.AllowedOrigins {
		allowed = append(allowed, strings.ToLower(strings.TrimRight(origin, "/")))
	}
	return datamodels.WSConfig{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  wsBufferSize,
			WriteBufferSize: wsBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return general.ItemInSlice(allowed, strings.ToLower(r.Header.Get("Origin")))
			},
		},
	}
}
