package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	PacketsForwarded    = metric.NewCounter("10s1s")
	PacketsDropped      = metric.NewCounter("10s1s")
	PacketsDelivered    = metric.NewCounter("10s1s")
	AdvertisementsSent  = metric.NewCounter("10s1s")
	AdvertisementsRecvd = metric.NewCounter("10s1s")
	RouteChanges        = metric.NewCounter("10s1s")
	RelaxLatency        = metric.NewHistogram("1m1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("dvsim:Forwarded/s", PacketsForwarded)
	expvar.Publish("dvsim:Dropped/s", PacketsDropped)
	expvar.Publish("dvsim:Delivered/s", PacketsDelivered)
	expvar.Publish("dvsim:AdvertisementsSent/s", AdvertisementsSent)
	expvar.Publish("dvsim:AdvertisementsRecvd/s", AdvertisementsRecvd)
	expvar.Publish("dvsim:RouteChanges/s", RouteChanges)
	expvar.Publish("dvsim:RelaxLatency (µs)", RelaxLatency)
}
