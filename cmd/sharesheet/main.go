// Package main provides the CLI entry point for sharesheet.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/sharesheet/sharesheet/internal/config"
	"github.com/sharesheet/sharesheet/pkg/device"
	httputil "github.com/sharesheet/sharesheet/pkg/http"
	"github.com/sharesheet/sharesheet/pkg/opengraph"
	"github.com/sharesheet/sharesheet/pkg/preview"
	"github.com/sharesheet/sharesheet/pkg/sharesheet"
	"github.com/sharesheet/sharesheet/pkg/sharetarget"
	"github.com/sharesheet/sharesheet/pkg/shareurl"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Links struct {
		URL     string `arg:"" help:"URL to share"`
		Text    string `help:"Share message" default:"Check this out!"`
		Subject string `help:"Email subject line" default:"Share"`
	} `cmd:"links" help:"Print the share URL for every platform."`

	Platforms struct {
		UserAgent   string `help:"User agent to evaluate availability against"`
		Touch       bool   `help:"Device reports touch support" default:"false"`
		NativeShare bool   `help:"Browser exposes a native share capability" default:"false"`
	} `cmd:"platforms" help:"List platforms with availability for a device."`

	Unfurl struct {
		URL string `arg:"" help:"URL to unfurl"`
	} `cmd:"unfurl" help:"Fetch link preview metadata for a URL."`

	Download struct {
		URL      string `arg:"" help:"URL to download"`
		Outdir   string `help:"Output directory" short:"o"`
		Filename string `help:"Filename to save as"`
	} `cmd:"download" help:"Download a file the way the share widget would."`

	Preview struct {
		URL         string `help:"URL to share" default:""`
		Text        string `help:"Share message" default:"Check this out!"`
		Subject     string `help:"Email subject line" default:"Share"`
		UserAgent   string `help:"User agent to evaluate availability against"`
		NativeShare bool   `help:"Browser exposes a native share capability" default:"false"`
	} `cmd:"preview" help:"Preview share targets interactively."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.sharesheet/config.yaml"),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "links <url>":
		printLinks(CLI.Links.URL, CLI.Links.Text, CLI.Links.Subject)

	case "platforms":
		printPlatforms(device.Signals{
			UserAgent:   CLI.Platforms.UserAgent,
			Touch:       CLI.Platforms.Touch,
			NativeShare: CLI.Platforms.NativeShare,
		})

	case "unfurl <url>":
		unfurlURL(cfg, CLI.Unfurl.URL)

	case "download <url>":
		downloadFile(cfg, CLI.Download.URL, CLI.Download.Outdir, CLI.Download.Filename)

	case "preview":
		runPreview(cfg, CLI.Preview.URL, CLI.Preview.Text, CLI.Preview.Subject, device.Signals{
			UserAgent:   CLI.Preview.UserAgent,
			NativeShare: CLI.Preview.NativeShare,
		})

	default:
		panic(ctx.Command())
	}
}

// buildShareURL constructs the dispatch URL for one platform.
func buildShareURL(target sharetarget.Target, url, text, subject string) string {
	switch target {
	case sharetarget.WhatsApp:
		return shareurl.WhatsApp(url, text)
	case sharetarget.Telegram:
		return shareurl.Telegram(url, text)
	case sharetarget.X:
		return shareurl.X(url, text)
	case sharetarget.Facebook:
		return shareurl.Facebook(url)
	case sharetarget.LinkedIn:
		return shareurl.LinkedIn(url)
	case sharetarget.Reddit:
		return shareurl.Reddit(url, text)
	case sharetarget.Snapchat:
		return shareurl.Snapchat(url)
	case sharetarget.SMS:
		return shareurl.SMS(url, text)
	case sharetarget.Email:
		return shareurl.Email(url, text, subject)
	case sharetarget.Instagram:
		return shareurl.Instagram()
	case sharetarget.TikTok:
		return shareurl.TikTok()
	case sharetarget.Threads:
		return shareurl.Threads()
	default:
		return ""
	}
}

// printLinks writes every platform's share URL to stdout.
func printLinks(url, text, subject string) {
	for _, p := range sharetarget.All() {
		link := buildShareURL(p.ID, url, text, subject)
		if link == "" {
			continue
		}
		fmt.Printf("%-12s %s\n", p.ID, link)
	}
}

// printPlatforms writes the platform registry with availability verdicts.
func printPlatforms(sig device.Signals) {
	verdicts := device.CheckAll(sig)

	for _, p := range sharetarget.All() {
		v := verdicts[p.ID]
		status := "available"
		if !v.Available {
			status = v.Reason
		}
		fmt.Printf("%-12s %-15s %s\n", p.ID, p.Label, status)
	}
}

// newFetcher builds the metadata fetcher from configuration.
func newFetcher(cfg *config.Config) *opengraph.Fetcher {
	httpConfig := httputil.DefaultConfig()
	httpConfig.Timeout = cfg.Unfurl.Timeout
	httpConfig.MaxRetries = cfg.Unfurl.MaxRetries
	httpConfig.UserAgent = cfg.Unfurl.UserAgent

	return opengraph.NewFetcher(opengraph.FetcherConfig{
		Endpoint: cfg.Unfurl.Endpoint,
		HTTP:     httpConfig,
	}, nil)
}

// unfurlURL fetches metadata for a single URL and prints the preview pane.
func unfurlURL(cfg *config.Config, url string) {
	fetcher := newFetcher(cfg)
	data := fetcher.Fetch(context.Background(), url)
	fmt.Print(preview.FormatMetadata(url, data))

	if data == nil {
		os.Exit(1)
	}
}

// downloadFile runs one download through the orchestrator with a disk saver.
func downloadFile(cfg *config.Config, url, outdir, filename string) {
	if outdir == "" {
		outdir = cfg.Share.DownloadDir
	}

	sheet := sharesheet.New(sharesheet.Options{
		DownloadURL:      url,
		DownloadFilename: filename,
		Saver:            &sharesheet.DirectorySaver{Dir: outdir},
	})

	sheet.DownloadFile(context.Background())
}

// runPreview fetches metadata and starts the interactive target browser.
func runPreview(cfg *config.Config, url, text, subject string, sig device.Signals) {
	if url == "" {
		slog.Error("Preview requires a URL via --url or config file")
		os.Exit(1)
	}
	if text == "" {
		text = cfg.Share.Text
	}
	if subject == "" {
		subject = cfg.Share.EmailSubject
	}

	verdicts := device.CheckAll(sig)

	var items []preview.Item
	for _, p := range sharetarget.All() {
		v := verdicts[p.ID]
		items = append(items, preview.Item{
			Platform:  p,
			ShareURL:  buildShareURL(p.ID, url, text, subject),
			Available: v.Available,
			Reason:    v.Reason,
		})
	}

	fetcher := newFetcher(cfg)
	metadata := fetcher.Fetch(context.Background(), url)

	if err := preview.Run(items, url, metadata); err != nil {
		slog.Error("Preview failed", "error", err)
		os.Exit(1)
	}
}
