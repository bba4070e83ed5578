package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qcmd/q/internal/config"
	"github.com/qcmd/q/internal/llm"
	"github.com/qcmd/q/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Run:   runConfigWizard,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			pterm.Error.Printfln("Failed to load config: %v", err)
			os.Exit(1)
		}

		pterm.DefaultSection.Println("Current Configuration")

		items := []pterm.BulletListItem{
			{Level: 0, Text: fmt.Sprintf("Default Provider: %s", cfg.AI.DefaultProvider)},
		}
		if cfg.AI.OpenRouter != nil {
			items = append(items,
				pterm.BulletListItem{Level: 1, Text: fmt.Sprintf("API Key: %s", maskIfSet(cfg.AI.OpenRouter.APIKey))},
				pterm.BulletListItem{Level: 1, Text: fmt.Sprintf("Model: %s", cfg.AI.OpenRouter.Model)},
				pterm.BulletListItem{Level: 1, Text: fmt.Sprintf("Base URL: %s", cfg.AI.OpenRouter.BaseURL)},
			)
		} else {
			items = append(items, pterm.BulletListItem{Level: 1, Text: "OpenRouter: not configured"})
		}
		items = append(items,
			pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("Auto Confirm: %t", cfg.Execution.AutoConfirm)},
			pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("Show Explanation: %t", cfg.Execution.ShowExplanation)},
			pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("Copy To Clipboard: %t", cfg.Execution.CopyToClipboard)},
			pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("Include Shell Info: %t", cfg.Context.IncludeShellInfo)},
			pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("Include Directory: %t", cfg.Context.IncludeDirectory)},
			pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("Include History: %t", cfg.Context.IncludeHistory)},
		)
		if cfg.Context.Shell != "" {
			items = append(items, pterm.BulletListItem{Level: 1, Text: fmt.Sprintf("Shell Override: %s", cfg.Context.Shell)})
		}
		pterm.DefaultBulletList.WithItems(items).Render()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := strings.TrimSpace(args[0])
		cfg, err := config.Load()
		if err != nil {
			pterm.Error.Printfln("Failed to load config: %v", err)
			os.Exit(1)
		}
		value, err := cfg.Get(key)
		if err != nil {
			pterm.Error.Printfln("%v", err)
			os.Exit(1)
		}
		if key == "ai.openrouter.api_key" {
			value = maskIfSet(value)
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := strings.TrimSpace(args[0])
		value := strings.TrimSpace(args[1])
		cfg, err := config.Load()
		if err != nil {
			pterm.Error.Printfln("Failed to load config: %v", err)
			os.Exit(1)
		}
		if err := cfg.Set(key, value); err != nil {
			pterm.Error.Printfln("%v", err)
			os.Exit(1)
		}
		if err := cfg.Save(); err != nil {
			pterm.Error.Printfln("Failed to save config: %v", err)
			os.Exit(1)
		}
		pterm.Success.Println("Updated.")
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.GetConfigPath()
		if err != nil {
			pterm.Error.Printfln("%v", err)
			os.Exit(1)
		}
		fmt.Println(path)
	},
}

// runConfigWizard asks for the OpenRouter API key and saves it, keeping
// any model or base URL the user already configured.
func runConfigWizard(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.NewDefault()
	}

	pterm.NewStyle(pterm.FgLightCyan).Println("Configuring OpenRouter...")
	pterm.Println("Enter your OpenRouter API Key:")

	apiKey, err := readAPIKey()
	if err != nil {
		pterm.Error.Printfln("Failed to read input: %v", err)
		os.Exit(1)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, pterm.FgLightRed.Sprint("API Key cannot be empty."))
		os.Exit(1)
	}

	cfg.SetAPIKey(apiKey)

	if ui.IsInteractive() {
		if verify, err := ui.Confirm("Verify the API key now?", true); err == nil && verify {
			verifyConnection(cmd.Context(), cfg)
		}
	}

	if err := cfg.Save(); err != nil {
		pterm.Error.Printfln("Failed to save configuration: %v", err)
		os.Exit(1)
	}
	pterm.NewStyle(pterm.FgLightGreen).Println("Configuration saved successfully!")
}

// readAPIKey reads the key without echo on a terminal, falling back to a
// plain line read when input is piped.
func readAPIKey() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		pterm.Println()
		if err != nil {
			return "", err
		}
		return string(key), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func verifyConnection(ctx context.Context, cfg *config.Config) {
	settings, err := cfg.ProviderSettings(config.ProviderOpenRouter)
	if err != nil {
		pterm.Warning.Printfln("Warning: Could not prepare provider: %v", err)
		return
	}
	provider, err := llm.GetProvider(config.ProviderOpenRouter, settings, newPromptManager())
	if err != nil {
		pterm.Warning.Printfln("Warning: Could not initialize provider: %v", err)
		return
	}

	pterm.Info.Println("Testing configuration...")
	vctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := provider.VerifyConnection(vctx); err != nil {
		pterm.Warning.Printfln("Warning: Could not verify connection: %v", err)
		return
	}
	pterm.Success.Println("Connection verified.")
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
