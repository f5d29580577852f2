package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paperforge/internal/bot"
	"paperforge/internal/config"
	"paperforge/internal/llm"
	"paperforge/internal/paper"
	"paperforge/internal/premium"
	"paperforge/internal/render"
)

var (
	rootCmd = &cobra.Command{
		Use:   "paperforge",
		Short: "Chat-driven IEEE-style research paper generator",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")

	generateCmd.Flags().StringVar(&genTitle, "title", "", "Paper title")
	generateCmd.Flags().IntVar(&genPages, "pages", 6, "Target page count (4-20)")
	generateCmd.Flags().StringVar(&genAuthor, "author", "", "Author name for the byline")
	generateCmd.Flags().StringVar(&genAffil, "affiliation", "", "Author affiliation")
	generateCmd.Flags().BoolVar(&genHumanize, "humanize", false, "Apply humanization directives")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "paper.html", "Output HTML path")
	_ = generateCmd.MarkFlagRequired("title")

	keysCmd.AddCommand(keysGenCmd, keysListCmd, keysRmCmd)

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(keysCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

func newGenerator(cfg *config.Config, log *zap.Logger) (*paper.Generator, error) {
	client, err := llm.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
	if err != nil {
		return nil, err
	}
	return paper.NewGenerator(client, log)
}

func openStore(cfg *config.Config) *premium.Store {
	store, err := premium.NewStore(cfg.Premium.DBPath, cfg.Premium.KeyPrefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open key store: %v\n", err)
		os.Exit(1)
	}
	return store
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Telegram.Token == "" {
			fmt.Fprintln(os.Stderr, "telegram token not configured (set PAPERFORGE_BOT_TOKEN or telegram.token)")
			os.Exit(1)
		}

		log, err := zap.NewProduction()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer log.Sync()

		gen, err := newGenerator(cfg, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		store := openStore(cfg)
		defer store.Close()

		b, err := bot.New(cfg.Telegram.Token, gen, store, log, bot.Options{
			AdminID:       cfg.Telegram.AdminID,
			FreePageLimit: cfg.Premium.FreePageLimit,
			Humanize:      cfg.Humanize,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Println("🚀 Paper generator bot is running...")
		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("bot stopped", zap.Error(err))
		}
	},
}

var (
	genTitle    string
	genPages    int
	genAuthor   string
	genAffil    string
	genHumanize bool
	genOut      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one paper from the command line",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if genPages < 4 || genPages > 20 {
			fmt.Fprintln(os.Stderr, "pages must be between 4 and 20")
			os.Exit(1)
		}

		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer log.Sync()

		gen, err := newGenerator(cfg, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		name := genAuthor
		if name == "" {
			name = cfg.Author.FallbackName
		}
		affil := genAffil
		if affil == "" {
			affil = cfg.Author.FallbackAffiliation
		}

		fmt.Printf("📝 Generating %d-page paper: %s\n", genPages, genTitle)
		req := paper.Request{Title: genTitle, Pages: genPages, Humanize: genHumanize}
		doc, err := gen.Generate(cmd.Context(), req, name, affil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
			os.Exit(1)
		}

		out, err := render.HTML(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rendering failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(genOut, out, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("✨ Paper written to %s\n", genOut)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage premium keys",
}

var keysGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Mint a new premium key",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := openStore(cfg)
		defer store.Close()

		key, err := store.GenerateKey(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(key)
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all keys and their status",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := openStore(cfg)
		defer store.Close()

		keys, err := store.ListKeys(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, k := range keys {
			status := "unused"
			if k.Used {
				status = fmt.Sprintf("used by %d", k.UsedBy)
			}
			fmt.Printf("%s\t%s\n", k.Key, status)
		}
	},
}

var keysRmCmd = &cobra.Command{
	Use:   "rm [key]",
	Short: "Delete a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := openStore(cfg)
		defer store.Close()

		found, err := store.DeleteKey(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !found {
			fmt.Fprintf(os.Stderr, "no such key: %s\n", strings.ToUpper(args[0]))
			os.Exit(1)
		}
		fmt.Println("deleted")
	},
}
