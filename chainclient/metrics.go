package chainclient

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc/stats"
)

var grpcClientConnectionsCurrent = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "walletd_chainclient_connections_current",
	Help: "Number of currently active connections to the upstream compact-block service.",
})

// connStatsHandler implements stats.Handler to track the lifecycle of
// this daemon's (single) connection to its upstream compact-block
// service, adapted from the teacher's server-side connection gauge to
// the client side of the same gRPC stack.
type connStatsHandler struct{}

func (h *connStatsHandler) TagRPC(ctx context.Context, info *stats.RPCTagInfo) context.Context {
	return ctx
}

func (h *connStatsHandler) HandleRPC(ctx context.Context, s stats.RPCStats) {}

func (h *connStatsHandler) TagConn(ctx context.Context, info *stats.ConnTagInfo) context.Context {
	return ctx
}

func (h *connStatsHandler) HandleConn(ctx context.Context, s stats.ConnStats) {
	switch s.(type) {
	case *stats.ConnBegin:
		grpcClientConnectionsCurrent.Inc()
	case *stats.ConnEnd:
		grpcClientConnectionsCurrent.Dec()
	}
}
