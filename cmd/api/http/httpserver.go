package http

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type ServerConfig struct {
	Host string
	Port int
}

func NewServer(config ServerConfig, h *BookHandler, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", ping)
	mux.HandleFunc("/books", h.books)

	server := http.Server{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:  withRequestID(logRequests(logger, mux)),
		ErrorLog: zap.NewStdLog(logger),
	}
	return &server
}

/* Tests the http server connection.  */
func ping(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	if method == http.MethodGet {
		w.WriteHeader(http.StatusNoContent)
		return
	} else {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}
