package handler

import (
	"net/http"
	"sync"

	"pos/config"
	"pos/di"
	"pos/shared/logger"
	httpTransport "pos/transport/http"
)

var (
	server *httpTransport.HTTP
	once   sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
