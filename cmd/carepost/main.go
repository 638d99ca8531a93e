package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/alkime/carepost/internal/app"
	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/keyring"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/alkime/carepost/internal/sheets"
	"github.com/alkime/carepost/internal/tui/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the carepost command structure.
type CLI struct {
	Generate GenerateCmd `cmd:"" help:"Rewrite a source article for a center"`
	Compose  ComposeCmd  `cmd:"" help:"Write an informational post from references or a free prompt"`
	Centers  CentersCmd  `cmd:"" help:"List centers"`
	Sources  SourcesCmd  `cmd:"" help:"List source articles"`
	Topics   TopicsCmd   `cmd:"" help:"List topics"`
	Models   ModelsCmd   `cmd:"" help:"List models offered by the configured provider"`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration"`
}

// loadConfig reads the environment and fills a missing provider key from the
// keychain. Environment variables take priority.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	key := keyring.Resolve(cfg.Provider(), cfg.APIKey())
	switch cfg.Provider() {
	case config.ProviderOpenAI:
		cfg.OpenAIAPIKey = key
	case config.ProviderAnthropic:
		cfg.AnthropicAPIKey = key
	default:
		cfg.GeminiAPIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w. Set via environment variables or run 'carepost config set-key'", err)
	}

	return cfg, nil
}

func openApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return app.New(cfg, slog.Default())
}

// openCatalog reads the row store without requiring a backend.
func openCatalog() (*catalog.Catalog, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	store, err := sheets.NewGoogleStore(cfg.ServiceAccountEmail, cfg.ServiceAccountKey(), cfg.SpreadsheetID())
	if err != nil {
		return nil, fmt.Errorf("failed to create row store: %w", err)
	}

	return catalog.New(store, cfg.DefaultTelephone), nil
}

// GenerateCmd rewrites one source article.
type GenerateCmd struct {
	Center  string `flag:"" required:"" help:"Center id"`
	Keyword string `flag:"" required:"" help:"Target keyword"`
	Source  string `flag:"" required:"" help:"Source article URL (pcUrl)"`
	Service string `flag:"" optional:"" help:"Service category; the recruitment tag selects recruitment mode"`
	Plain   bool   `flag:"" help:"Print the document instead of launching the terminal UI"`
}

// Run executes the generate command.
func (c *GenerateCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}

	req := rewrite.Request{
		CenterID:    c.Center,
		Keyword1:    c.Keyword,
		SourcePcURL: c.Source,
		Service:     c.Service,
	}

	if c.Plain {
		res, err := a.Rewriter.Rewrite(context.Background(), req)
		if err != nil {
			return err
		}
		fmt.Println(res.Text)

		return nil
	}

	progress := workflow.NewProgress()
	view := workflow.NewGenerate(context.Background(), a.Rewriter.WithObserver(progress), req,
		progress, a.Rewriter.MaxAttempts())
	if _, err := tea.NewProgram(view, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	res, err := view.Result()
	if err != nil {
		return err
	}
	fmt.Println(res.Text)

	return nil
}

// ComposeCmd runs reference-driven or free-prompt generation.
type ComposeCmd struct {
	CenterName string `flag:"" optional:"" help:"Center display name"`
	Service    string `flag:"" optional:"" help:"Service category"`
	Topic      string `flag:"" optional:"" help:"Topic tag"`
	Keyword    string `flag:"" optional:"" help:"Primary target keyword"`
	Keyword2   string `flag:"" optional:"" help:"Secondary target keyword"`
	Prompt     string `flag:"" optional:"" help:"Free prompt used when the structured fields are incomplete"`
	Debug      bool   `flag:"" help:"Print the references and fact tables used"`
}

// Run executes the compose command.
func (c *ComposeCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}

	res, err := a.Generator.Generate(context.Background(), reference.Request{
		CenterName: c.CenterName,
		Service:    c.Service,
		TopicTag:   c.Topic,
		Keyword1:   c.Keyword,
		Keyword2:   c.Keyword2,
		Prompt:     c.Prompt,
	})
	if err != nil {
		return err
	}

	fmt.Println(res.Text)
	if c.Debug && res.Debug != nil {
		return printJSON(res.Debug)
	}

	return nil
}

// CentersCmd lists centers.
type CentersCmd struct{}

// Run executes the centers command.
func (c *CentersCmd) Run() error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	centers, err := cat.ListCenters(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, ctr := range centers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ctr.ID, ctr.Name, ctr.Telephone, ctr.Address)
	}

	return w.Flush()
}

// SourcesCmd lists source articles, newest first.
type SourcesCmd struct {
	Limit   int    `flag:"" default:"50" help:"Maximum number of articles"`
	Service string `flag:"" optional:"" help:"Only titles mentioning this service"`
}

// Run executes the sources command.
func (c *SourcesCmd) Run() error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	posts, err := cat.ListSourceArticles(context.Background(), c.Limit, c.Service)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\n", p.Title, p.URL)
	}

	return w.Flush()
}

// TopicsCmd lists topics.
type TopicsCmd struct {
	Service string `flag:"" optional:"" help:"Only topics for this service"`
}

// Run executes the topics command.
func (c *TopicsCmd) Run() error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	listing, err := cat.ListTopics(context.Background(), c.Service)
	if err != nil {
		return err
	}

	return printJSON(listing)
}

// ModelsCmd lists the provider's models.
type ModelsCmd struct{}

// Run executes the models command.
func (c *ModelsCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	if a.Models == nil {
		return errors.New("the configured provider cannot list models")
	}

	models, err := a.Models.ListModels(context.Background())
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Println(m.Name)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Provider string `arg:"" enum:"gemini,openai,anthropic" help:"Provider name (gemini, openai or anthropic)"`
	Secret   string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.ForProvider(c.Provider)
	if err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Provider)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		fmt.Println("\nRun 'carepost config set-key <provider> <key>' to configure.")
	}

	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func main() {
	// Text logs go to stderr so stdout stays clean for generated posts.
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("carepost"),
		kong.Description("Generate care center blog posts from the shared spreadsheet."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
