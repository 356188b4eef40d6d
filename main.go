package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	logx "github.com/deskpilot-poc/server/pkg/logger"
	pkgredis "github.com/deskpilot-poc/server/pkg/redis"

	"github.com/deskpilot-poc/server/internal/agent/graph"
	"github.com/deskpilot-poc/server/internal/agent/model"
	"github.com/deskpilot-poc/server/internal/agent/repo"
	"github.com/deskpilot-poc/server/internal/agent/service"
	"github.com/deskpilot-poc/server/internal/agent/tools"
	"github.com/deskpilot-poc/server/internal/agent/vectorstore"
)

// AppConfig defines all configurable parameters for the agent, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier model.ClassifierModelConfig
	Generation model.GenerationModelConfig
	Retrieval  model.RetrievalConfig
	Call       model.CallConfig
	Escalation model.EscalationConfig
	Workers    model.WorkerPoolConfig
	Trace      model.TraceConfig
}

func main() {
	fmt.Println("Onboarding helpdesk agent demo...")
	ctx := context.Background()
	logx.Init()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	// Trace persistence: Redis when configured, in-memory otherwise.
	var traceRepo model.TraceRepository
	if envCfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(envCfg.Trace.TTL)
		if err != nil {
			log.Fatalf("Invalid TRACE_TTL '%s': %v", envCfg.Trace.TTL, err)
		}
		rdb, err := envCfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()
		fmt.Println("Connected to Redis successfully")
		traceRepo = repo.NewRedisTraceRepository(rdb, ttl)
	} else {
		fmt.Println("No REDIS_URL configured, keeping turn traces in memory")
		traceRepo = repo.NewMemoryTraceRepository()
	}

	// ====================================================
	// Compose the turn pipeline entirely from env
	runner, err := graph.BuildTurnRunner(ctx, graph.Config{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		ClassifierModel: envCfg.Classifier,
		GenerationModel: envCfg.Generation,
		Retrieval:       envCfg.Retrieval,
		Call:            envCfg.Call,
		Escalation:      envCfg.Escalation,
		Index:           vectorstore.NewMemoryIndex(vectorstore.OnboardingCorpus()...),
		Tickets:         tools.NewSimulatedTicketService(),
		TraceRepo:       traceRepo,
	})
	if err != nil {
		log.Fatalf("Failed to build turn pipeline: %v", err)
	}

	svc := service.New(runner, envCfg.Workers)

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Policy question answered from documentation",
			query:       "How many home office days per week do we get?",
		},
		{
			description: "IT support question",
			query:       "My VPN client won't connect, what should I do?",
		},
		{
			description: "Critical issue with escalation",
			query:       "I lost my laptop and think my account was accessed",
		},
		{
			description: "Chitchat that only needs a clarification",
			query:       "Hey there!",
		},
	}

	conversationID := "demo-conversation-1"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)
		fmt.Println("Processing...")

		result, err := svc.ProcessTurn(ctx, model.TurnInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			log.Fatalf("Failed to process turn %d: %v", i+1, err)
		}

		fmt.Printf("Intent: %s\n", result.Intent)
		if result.Ticket != nil {
			fmt.Printf("Ticket: %s (priority=%s, department=%s)\n",
				result.Ticket.ID, result.Ticket.Priority, result.Ticket.Department)
		}
		fmt.Printf("Answer: %s\n", result.FinalAnswer)
		fmt.Printf("Trace:  %s\n", strings.Join(result.Trace, " -> "))
		fmt.Println(strings.Repeat("-", 60))

		// slight delay between turns for readability
		time.Sleep(300 * time.Millisecond)
	}

	fmt.Println("\nAll demo turns completed.")
}
