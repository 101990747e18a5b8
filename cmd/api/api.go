package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hverbeek/esm_postproc/internal/store"
)

type application struct {
	config config
	store  store.Storage
}

type config struct {
	addr           string
	allowedOrigins string
	db             dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// The chart frontend runs on a different origin.
	r.Use(cors.New(cors.Options{
		AllowedOrigins: strings.Split(app.config.allowedOrigins, ","),
		AllowedMethods: []string{http.MethodGet},
	}).Handler)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/prices", func(r chi.Router) {
			r.Get("/", app.handleGetPrices)
			r.Get("/summary", app.handleGetPriceSummary)
		})
		r.Route("/storage-levels", func(r chi.Router) {
			r.Get("/", app.handleGetStorageLevels)
		})
		r.Route("/balance", func(r chi.Router) {
			r.Get("/", app.handleGetBalance)
		})
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", app.handleGetRuns)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	log.Printf("Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
