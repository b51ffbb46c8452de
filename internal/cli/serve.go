package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dost-app/dost/internal/api"
	"github.com/dost-app/dost/internal/chat"
	"github.com/dost-app/dost/internal/config"
	"github.com/dost-app/dost/internal/conversation"
	"github.com/dost-app/dost/internal/llm"
	"github.com/dost-app/dost/internal/search"
	"github.com/dost-app/dost/internal/server"
	"github.com/dost-app/dost/internal/tools"
)

// NewServeCmd creates the 'serve' command, which runs the HTTP chat relay.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat relay",
		Long: `Start the HTTP server exposing POST /chat, POST /api/chat, GET /health,
GET /metrics and the embedded chat widget at /.`,
		Example: `  dost serve
  PORT=9000 STORE_DRIVER=redis dost serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, health, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening conversation store: %w", err)
	}
	defer store.Close()

	handler, err := newChatHandler(cfg, store)
	if err != nil {
		return err
	}

	router := api.NewRouter(
		api.RouterConfig{CORSAllowedOrigins: cfg.CORS.AllowedOrigins},
		api.HandlerSet{Chat: handler.Chat, StoreHealthy: health},
	)

	return server.New(cfg.Server, router).Start(ctx)
}

// newChatHandler wires the orchestrator from configuration.
func newChatHandler(cfg *config.Config, store conversation.Store) (*chat.Handler, error) {
	loc, err := time.LoadLocation(cfg.Chat.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	// NewOpenAI returns a nil pointer without a key; keep the interface nil too.
	var model llm.ChatModel
	if m := llm.NewOpenAI(cfg.LLM); m != nil {
		model = m
	}

	orch := chat.NewOrchestrator(chat.Deps{
		Store:    store,
		Model:    model,
		Search:   search.NewClient(cfg.Search),
		Registry: tools.Default(),
	}, chat.Settings{
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		HistoryLimit: cfg.Chat.HistoryLimit,
		DefaultName:  cfg.Chat.DefaultName,
		Location:     loc,
	})

	return chat.NewHandler(orch), nil
}
