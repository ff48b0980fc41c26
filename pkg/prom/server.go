package prom

import (
	xhttp "github.com/nimasrn/inbox-ledger/pkg/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Handler serves the registered metrics in the exposition format.
func Handler() xhttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// Mount registers the metrics endpoint on an existing engine.
func Mount(s *xhttp.Engine, url string) {
	s.GET(url, Handler())
}
