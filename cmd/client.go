package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mohammad-safakhou/webqa/config"
	"github.com/mohammad-safakhou/webqa/internal/client"
	"github.com/mohammad-safakhou/webqa/models"
	"github.com/spf13/cobra"
)

func clientCMD() *cobra.Command {
	var cfgPath string
	var backend string

	newClient := func() (*client.Client, error) {
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return nil, err
		}
		url := cfg.Client.BackendURL
		if backend != "" {
			url = backend
		}
		return client.New(url, cfg.Client.Timeout), nil
	}

	var cmd = &cobra.Command{
		Use:   "client",
		Short: "Talk to a running webqa server",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "backend URL (overrides client.backend_url)")

	indexCmd := &cobra.Command{
		Use:   "index <url>",
		Short: "Index a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			env, err := c.Index(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printEnvelope(cmd.OutOrStdout(), env, env.Message)
		},
	}

	var sessionID string
	askCmd := &cobra.Command{
		Use:   "ask <url> <question>",
		Short: "Ask a question about an indexed page",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			env, err := c.Ask(cmd.Context(), args[0], strings.Join(args[1:], " "), sessionID)
			if err != nil {
				return err
			}
			return printEnvelope(cmd.OutOrStdout(), env, "Answer: "+env.Answer)
		},
	}
	askCmd.Flags().StringVar(&sessionID, "session", "", "session id from a previous start_chat")

	chatCmd := &cobra.Command{
		Use:   "chat <url>",
		Short: "Start an interactive chat about an indexed page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), c, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(indexCmd, askCmd, chatCmd)
	return cmd
}

// runChat opens a session and answers each line read from in until EOF
// or an empty line.
func runChat(ctx context.Context, c *client.Client, url string, in io.Reader, out io.Writer) error {
	env, err := c.StartChat(ctx)
	if err != nil {
		return err
	}
	if !env.OK() {
		return errors.New(env.Message)
	}
	sessionID := env.SessionID
	fmt.Fprintf(out, "New chat session started: %s\n", sessionID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		env, err := c.Ask(ctx, url, question, sessionID)
		if err != nil {
			return err
		}
		if !env.OK() {
			fmt.Fprintf(out, "Error: %s\n", env.Message)
			continue
		}
		fmt.Fprintf(out, "Answer: %s\n", env.Answer)
		if len(env.ChatHistory) > 0 {
			fmt.Fprintln(out, "Chat History:")
			for _, line := range env.ChatHistory {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
	}
	return scanner.Err()
}

func printEnvelope(out io.Writer, env models.Envelope, success string) error {
	if !env.OK() {
		return errors.New(env.Message)
	}
	fmt.Fprintln(out, success)
	return nil
}
