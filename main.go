package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moaibot/discord-snark-bot/ai/snark"
	"github.com/moaibot/discord-snark-bot/config"
	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/discord"
	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/moaibot/discord-snark-bot/metrics"
	"github.com/moaibot/discord-snark-bot/news"
	"github.com/moaibot/discord-snark-bot/replay"
	"github.com/moaibot/discord-snark-bot/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("configuration error", "error", err.Error())
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LogLevel(cfg.LogLevel), os.Stdout)
	logger.Info("starting up")

	server := metrics.SetupServer(cfg.MetricsAddr)
	go server.Run()

	db, err := database.NewPostgres(cfg.PostgresURL, logger)
	if err != nil {
		logger.Error("database setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		logger.Error("discord session setup failed", "error", err.Error())
		os.Exit(1)
	}
	platform := discord.NewPlatform(session)

	gen, err := snark.Setup(cfg, db, db, platform, logger)
	if err != nil {
		logger.Error("generation client setup failed", "error", err.Error())
		os.Exit(1)
	}

	dispatcher := replay.NewDispatcher(logger)
	dispatcher.Register(replay.KindTextAnalysis, gen.AnalyzeChat)
	dispatcher.Register(replay.KindImageComment, gen.CommentImage)
	dispatcher.Register(replay.KindPoem, gen.Poem)
	dispatcher.Register(replay.KindPickupLine, gen.PickupLine)
	dispatcher.Register(replay.KindRoast, gen.ReplayRoast)
	dispatcher.Register(replay.KindPraise, gen.Praise)
	controller := replay.NewController(db, dispatcher, platform, logger)

	bot, err := discord.Setup(session, cfg, gen, controller, db, logger)
	if err != nil {
		logger.Error("discord setup failed", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runner := schedule.NewRunner(logger)
	runner.Add(snark.NewIdleTask(gen, db, db, cfg.IdleThreshold, logger), cfg.IdleInterval, cfg.IdleInterval)

	if cfg.NewsEnabled() {
		adminChat := adminDMChannel(session, cfg.AdminUserID, logger)
		client := news.NewClient(cfg.GNewsAPIKey, cfg.NewsLang, cfg.NewsCountry, cfg.NewsMaxCount)
		poster := news.NewPoster(client, gen, platform, db, db, adminChat, logger)
		runner.Add(poster, cfg.NewsInterval, time.Minute)
		bot.SetNewsTrigger(poster.Run)
	} else {
		logger.Info("news posting disabled, no GNEWS_API_KEY")
	}
	runner.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	cancel()
	runner.Wait()
	if err := bot.Close(); err != nil {
		logger.Error("error closing discord session", "error", err.Error())
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error stopping metrics server", "error", err.Error())
	}
}

// adminDMChannel resolves the admin's DM channel so maintenance-time news
// still has somewhere to go. Best effort: an empty result just means the
// digest is skipped during maintenance.
func adminDMChannel(session *discordgo.Session, adminID string, logger *logging.Logger) string {
	if adminID == "" {
		return ""
	}
	ch, err := session.UserChannelCreate(adminID)
	if err != nil {
		logger.Warn("could not open admin DM channel", "error", err.Error())
		return ""
	}
	return ch.ID
}
