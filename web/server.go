// Package web serves a small read-only status endpoint.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/russross/blackfriday/v2"

	"github.com/mochi-sys/teatally/bot"
	"github.com/mochi-sys/teatally/common"
)

const docsMarkdown = `# Teatally

A bot that counts the cups of tea shared on your server.

## Commands

- ` + "`tea [user]`" + `: share a pot of tea with someone (or yourself)
- ` + "`record [user]`" + `: show someone's record
- ` + "`affinity [user]`" + `: affinity score (capped at 10000)
- ` + "`steep [user]`" + `: steep level
- ` + "`top`" + `: this server's leaderboard
- ` + "`art <name>`" + `: a random image for the given name

## Data

Counts are stored per user, globally; leaderboards only show users seen in
the server they're requested from.
`

type statusResponse struct {
	Version string    `json:"version"`
	Started time.Time `json:"started"`

	Users  int `json:"users"`
	Groups int `json:"groups"`

	AssetRef     string     `json:"asset_ref,omitempty"`
	AssetUpdated *time.Time `json:"asset_updated,omitempty"`
}

// Serve starts the status server on the given port. It never returns; run it
// in its own goroutine.
func Serve(b *bot.Bot, port string) {
	docs := blackfriday.Run([]byte(docsMarkdown))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.PlainText(w, req, "ok")
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		users, groups := b.Store.Counts()

		resp := statusResponse{
			Version: common.Version(),
			Started: b.Start,
			Users:   users,
			Groups:  groups,
		}
		if b.Updater != nil {
			state := b.Updater.State()
			resp.AssetRef = state.CommitHash
			if !state.UpdateTime.IsZero() {
				resp.AssetUpdated = &state.UpdateTime
			}
		}

		render.JSON(w, req, resp)
	})

	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		render.HTML(w, req, string(docs))
	})

	b.Sugar.Infof("Status server listening on :%v", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		b.Sugar.Errorf("Status server stopped: %v", err)
	}
}
