package server

import (
	"github.com/matzehuels/gridwire/pkg/core/channel"
	"github.com/matzehuels/gridwire/pkg/poster"
)

// HealthResponse answers GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ChannelsResponse answers POST /v1/channels.
type ChannelsResponse struct {
	Rows       int                `json:"rows"`
	Cols       int                `json:"cols"`
	Capacities channel.Capacities `json:"capacities"`
	Channels   []poster.Channel   `json:"channels"`
}
