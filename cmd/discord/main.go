// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"teobot/internal/ai"
	"teobot/internal/config"
	"teobot/internal/discord"
	"teobot/internal/mind"
	"teobot/internal/storage"
)

func main() {
	log.Println("[INFO] Starting teobot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	// Storage is best-effort: a broken file degrades the bot to memory-only.
	var trendingStore mind.TrendingStore
	var contextStore mind.ContextStore
	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Printf("[ERR] Storage unavailable (%v), running memory-only", err)
	} else {
		defer store.Close()
		trendingStore = store
		contextStore = store
	}

	provider, err := ai.NewProvider(cfg.AIEngine)
	if err != nil {
		log.Fatal(err)
	}

	bot, err := discord.NewBot(cfg.DiscordToken)
	if err != nil {
		log.Fatal(err)
	}
	if err := bot.Connect(); err != nil {
		log.Fatal(err)
	}

	allowed := make(map[string]bool, len(cfg.AllowedChannels))
	for _, ch := range cfg.AllowedChannels {
		allowed[ch] = true
	}

	engine := mind.NewEngine(mind.EngineConfig{
		Pipeline: mind.PipelineConfig{
			AllowedConversations: allowed,
			NameTokens:           cfg.NameTokens,
			SleepStartHour:       cfg.SleepStartHour,
			SleepEndHour:         cfg.SleepEndHour,
			TriggerProbability:   cfg.TriggerProbability,
			ReactProbability:     cfg.ReactProbability,
			MinReplyInterval:     cfg.MinReplyInterval,
		},
		Producer:               mind.DefaultProducerConfig(),
		Delivery:               mind.DefaultDeliveryConfig(),
		TransportPerMinute:     cfg.TransportPerMinute,
		CompletionPerMinute:    cfg.CompletionPerMinute,
		CompletionPerHour:      cfg.CompletionPerHour,
		ReactionTagProbability: 0.5,
		Phrases:                mind.LoadPhrases(cfg.PhrasesPath),
	}, bot, provider, trendingStore, contextStore)
	bot.SetHandler(engine)

	if store != nil {
		go storage.RunTrendingPruner(ctx, store, engine.Conversations)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
