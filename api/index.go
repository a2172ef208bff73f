package handler

import (
	"net/http"

	"sharebloom-backend/bootstrap"
)

var serve http.HandlerFunc

func init() {
	app, err := bootstrap.New()
	if err != nil {
		panic("app create: " + err.Error())
	}
	serve = bootstrap.HTTPHandler(app)
}

// Handler is the Vercel serverless entry point. All requests are rewritten here.
func Handler(w http.ResponseWriter, r *http.Request) {
	serve(w, r)
}
