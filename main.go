package main

import (
	"os"

	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/toolbridge/mcp-chat-go/host"
	"github.com/toolbridge/mcp-chat-go/mcp"
)

func main() {
	app := &cli.App{
		Name:      "mcp-chat",
		Usage:     "chat with a model that can call tools from MCP servers",
		ArgsUsage: "<server script (.py/.js) or mcpServers config (.json)>",
		Action: func(c *cli.Context) error {
			ctx := c.Context

			if c.NArg() != 1 {
				return cli.Exit("usage: mcp-chat <server script or config path>", 1)
			}

			settings, err := host.LoadSettings()
			if err != nil {
				slog.ErrorContext(ctx, "invalid configuration", slog.Any("error", err))
				return cli.Exit("invalid configuration", 1)
			}

			config, err := mcp.LoadConfig(c.Args().First())
			if err != nil {
				slog.ErrorContext(ctx, "failed to load server config", slog.Any("error", err))
				return cli.Exit("failed to load server config", 1)
			}

			session, err := host.Connect(ctx, settings, config)
			if err != nil {
				slog.ErrorContext(ctx, "failed to connect to tool servers", slog.Any("error", err))
				return cli.Exit("failed to connect to tool servers", 1)
			}
			defer session.Close()

			if err := session.Chat(ctx, os.Stdin, os.Stdout); err != nil {
				slog.ErrorContext(ctx, "chat loop failed", slog.Any("error", err))
				return cli.Exit("chat loop failed", 1)
			}

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
