package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/tagocar/fms-backend/internal/agent"
	"github.com/tagocar/fms-backend/internal/middleware"
	"github.com/tagocar/fms-backend/internal/o11y"
	"github.com/tagocar/fms-backend/internal/slackapi"
	"github.com/tagocar/fms-backend/relay"
)

var cli = struct {
	Port int `name:"port" env:"PORT" default:"8002"`

	SlackBotToken  string        `name:"slack-bot-token" env:"SLACK_BOT_TOKEN" required:""`
	AgentEndpoint  string        `name:"agent-endpoint" env:"AGENT_ENDPOINT" required:""`
	AgentToken     string        `name:"agent-token" env:"AGENT_TOKEN"`
	SessionTimeout time.Duration `name:"session-timeout" env:"SESSION_TIMEOUT" default:"1h"`

	OTLPEndpoint string `name:"otlp-endpoint" env:"OTLP_ENDPOINT"`
}{}

func main() {
	if err := run(); err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	kong.Parse(&cli)

	obs, cleanup, err := o11y.Setup(ctx, "chat-relay", cli.OTLPEndpoint)
	defer cleanup()
	if err != nil {
		return err
	}

	rl := relay.New(
		slackapi.NewHTTPClient(cli.SlackBotToken),
		agent.NewHTTPClient(cli.AgentEndpoint, cli.AgentToken),
		relay.NewSessionStore(cli.SessionTimeout),
		middleware.Tracing("chat-relay"),
		middleware.Logging(obs.Logger),
		middleware.Metrics(obs.Registry),
	)

	serv := http.Server{
		Addr:    fmt.Sprintf(":%d", cli.Port),
		Handler: rl.Router(),
	}

	go func() {
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return serv.Shutdown(ctx)
}
