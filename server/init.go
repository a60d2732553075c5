package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/esimov/pigo-tryon/config"
	"github.com/esimov/pigo-tryon/content"
	"github.com/esimov/pigo-tryon/site"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:   "tryon-server",
	Short: "Serve the virtual try-on website",
	Long: `Serves the marketing pages, the try-on page shell with its WebAssembly
client, and the small API used to share captured looks.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().String("host", "", "Host to bind to (overrides TRYON_HOST)")
	rootCmd.Flags().Int("port", 0, "Port to listen on (overrides TRYON_PORT)")
	rootCmd.Flags().String("root", "", "Directory holding the static assets (overrides TRYON_STATIC_DIR)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags overrides the environment configuration with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		cfg.StaticDir = root
	}

	var err error
	cfg.StaticDir, err = filepath.Abs(cfg.StaticDir)
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := applyFlags(cmd, cfg); err != nil {
		return fmt.Errorf("resolving static directory: %w", err)
	}

	c, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}

	server, err := site.NewServer(cfg, c)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	if cfg.ContentFile != "" {
		g.Go(func() error {
			return content.Watch(ctx, cfg.ContentFile, server.SetContent)
		})
	}
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Println(err)
		return err
	}
	return nil
}
