package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	mem "awardkit/adapters/memory"
	ws "awardkit/adapters/websocket"
	"awardkit/awards"
	"awardkit/core"
	"awardkit/engine"
	"awardkit/realtime"
)

func main() {
	// Use readable text logging for development/demo
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(textHandler))

	ctx := context.Background()
	activity := mem.NewActivitySource()
	seedDemoUsers(activity)

	hub := realtime.NewHub()
	svc, rar := awards.New(
		awards.WithActivity(activity),
		awards.WithRealtime(hub),
		awards.WithDispatchMode(engine.DispatchAsync),
	)

	http.Handle("/ws", ws.Handler(hub))
	http.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		// routes: POST /users/{id}/recheck, GET /users/{id}/awards
		parts := split(r.URL.Path, '/')
		if len(parts) < 3 {
			http.NotFound(w, r)
			return
		}
		user := core.UserID(parts[1])
		switch {
		case r.Method == http.MethodPost && parts[2] == "recheck":
			err := svc.UpdateAwards(ctx, user, true)
			writeJSON(w, map[string]any{"ok": err == nil, "err": errString(err)})
			return
		case r.Method == http.MethodGet && parts[2] == "awards":
			held, err := svc.UserAwards(ctx, user)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, held)
			return
		}
		http.NotFound(w, r)
	})
	http.HandleFunc("/rarity/", func(w http.ResponseWriter, r *http.Request) {
		// route: GET /rarity/{code} reports tier 0
		parts := split(r.URL.Path, '/')
		if len(parts) < 2 {
			http.NotFound(w, r)
			return
		}
		pct, err := rar.Get(ctx, core.AwardCode(parts[1]), 0)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, map[string]any{"rarity": pct})
	})

	slog.Info("starting demo server on :8080")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		slog.Error("demo server crashed", "error", err)
		os.Exit(1)
	}
}

// seedDemoUsers registers a couple of fixture accounts so rechecks have
// something to grant.
func seedDemoUsers(activity *mem.ActivitySource) {
	now := time.Now().UTC()
	activity.Set("alice", mem.UserActivity{
		Profile: core.Profile{JoinedAt: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Active: true},
		Levels: []mem.Level{
			{Approved: true, ReleasedAt: now.AddDate(0, -2, 0)},
			{Approved: true, ReleasedAt: now.AddDate(0, -2, 3)},
			{Approved: true, ReleasedAt: now.AddDate(0, -1, 0)},
		},
		Players: []core.UserID{"bob", "carol"},
	})
	activity.Set("bob", mem.UserActivity{
		Profile: core.Profile{JoinedAt: now.AddDate(-1, 0, 0), Active: true},
		Playlist: []mem.PlaylistEntry{
			{Status: mem.PlaylistFinished, LevelRatingPosition: 4},
			{Status: mem.PlaylistFinished, LevelRatingPosition: 3},
			{Status: mem.PlaylistFinished, LevelRatingPosition: 4},
			{Status: mem.PlaylistFinished, LevelRatingPosition: 2},
			{Status: mem.PlaylistFinished, LevelRatingPosition: 4},
		},
	})
	activity.Set("carol", mem.UserActivity{
		Profile: core.Profile{JoinedAt: now.AddDate(-2, 0, 0), Active: true},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func errString(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}

func split(p string, sep rune) []string {
	var parts []string
	current := make([]rune, 0, len(p))

	for _, r := range p {
		if r == sep {
			if len(current) > 0 {
				parts = append(parts, string(current))
				current = current[:0]
			}
			continue
		}
		current = append(current, r)
	}

	if len(current) > 0 {
		parts = append(parts, string(current))
	}

	return parts
}
