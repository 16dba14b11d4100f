package cmd

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/noshowboard/internal/api"
	"github.com/KaramelBytes/noshowboard/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline, then serve the dashboard aggregates over HTTP",
	Long: `serve runs the cleaning pipeline to completion, persists the cleaned CSV
and then serves the filter-and-aggregate API consumed by the charting
frontend. The server never starts if the pipeline fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, stats, err := pipeline.Run(cfg.InputCSV, cfg.OutputCSV)
		if err != nil {
			return err
		}
		log.Printf("cleaned %d of %d rows (snapshot %s)", stats.RowsOut, stats.RowsIn, t.SnapshotID)
		log.Printf("cleaned table written to %s", cfg.OutputCSV)

		handler := api.NewHandler(t, stats)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(middleware.RealIP)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("noshowboard is running"))
		})
		handler.RegisterRoutes(r)

		log.Printf("serving dashboard aggregates on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
