package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/etnz/coins"
	"github.com/etnz/coins/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr    string
	origins string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard JSON API" }
func (*serveCmd) Usage() string {
	return `coins serve [-addr <host:port>] [-origins <list>]

  Serves the market data, portfolio and watchlist JSON API for a dashboard
  front end, and Prometheus metrics on /metrics.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "Address to listen on.")
	f.StringVar(&c.origins, "origins", "http://localhost:3000", "Comma separated list of the origins allowed by CORS, * for any.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger()
	h := server.New(newMarket(), coins.NewSessions(), server.Options{
		AllowOrigins: server.SplitOrigins(c.origins),
		Logger:       log,
	})
	srv := &http.Server{Addr: c.addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Infof("listening on %s", c.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
