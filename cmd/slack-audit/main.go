// Command slack-audit serves a small membership-audit API on top of the
// rate-governed Slack client: guest and contingent-worker counts for the
// workspace, with health and Prometheus metrics endpoints.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmercad0/slack-objects/pkg/logging"
	"github.com/mmercad0/slack-objects/pkg/objects"
)

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") != "",
		Output: os.Stderr,
	})

	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" {
		logger.Fatal().Msg("SLACK_BOT_TOKEN must be set")
	}

	client, err := objects.New(objects.Config{
		BotToken:  token,
		ScimToken: os.Getenv("SLACK_SCIM_TOKEN"),
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create slack client")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/audit/users", userAuditHandler(client))

	addr := ":" + getEnv("PORT", "8080")
	logger.Info().Str("addr", addr).Msg("starting audit server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// userAudit is the JSON shape of one audit run.
type userAudit struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Deleted           int `json:"deleted"`
	Bots              int `json:"bots"`
	Guests            int `json:"guests"`
	ContingentWorkers int `json:"contingent_workers"`
}

// userAuditHandler walks the full member list and summarizes it. The walk
// runs under the client's pacing, so large workspaces take a while; the
// handler budget reflects that.
func userAuditHandler(client *objects.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		users, err := client.Users().List(ctx, 0)
		if err != nil {
			http.Error(w, fmt.Sprintf("list users: %v", err), http.StatusBadGateway)
			return
		}

		var audit userAudit
		audit.Total = len(users)
		for i := range users {
			u := &users[i]
			switch {
			case u.Deleted:
				audit.Deleted++
			case u.IsBot:
				audit.Bots++
			default:
				audit.Active++
			}
			if u.IsGuest() {
				audit.Guests++
			}
			if u.IsContingentWorker() {
				audit.ContingentWorkers++
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(audit)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
