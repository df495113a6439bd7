package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lokisoft/site/blog/application"
	"github.com/lokisoft/site/blog/persistence"
	"github.com/lokisoft/site/internal/config"
	"github.com/lokisoft/site/internal/middleware"
	"github.com/lokisoft/site/internal/rest"
	"github.com/lokisoft/site/shared/db/sqlite"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "site-server",
	Short: "Content API server for the LokiSoft website",
	Long: `site-server renders markdown blog posts into sanitized HTML and serves
them over a JSON API with filtering, pagination, full-text search and
related-post suggestions, plus a small comment store.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	database := sqlite.NewSQLiteDB(cfg.Database.Path)
	if err := database.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	store := persistence.NewFilePostStore(cfg.Content.PostsDir)
	service := application.NewPostService(
		store,
		application.NewMarkdownRenderer(),
		application.NewRenderCache(),
	)
	comments := persistence.NewCommentRepository(database.DB())

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, rest.NewPostsHandler(service), rest.NewCommentsHandler(comments))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Str("posts_dir", cfg.Content.PostsDir).Msg("Starting site server")

	return router.Run(addr)
}
