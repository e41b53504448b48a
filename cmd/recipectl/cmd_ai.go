package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/spf13/cobra"
)

func newAICmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "AI recipe helpers",
	}

	cmd.AddCommand(newAIGenerateCmd(opts))
	cmd.AddCommand(newAIChatCmd(opts))
	return cmd
}

func newAIGenerateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <ingredients...>",
		Short: "Turn free text ingredients into a full recipe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			rec, err := opts.client.GenerateRecipe(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\nIngredients:\n%s\n\nInstructions:\n%s\n", rec.Title, rec.Ingredients, rec.Instructions)
			return nil
		},
	}
}

func newAIChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the recipe assistant",
		Long: `Chat with the recipe assistant.

Each line read from stdin is one message. The chat ends on EOF or once the
assistant has produced a complete recipe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conv := recipesdk.NewConversation(opts.client)
			fmt.Fprintf(out, "assistant> %s\n", recipesdk.Greeting)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for !conv.Done() {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}

				line := scanner.Text()
				if !conv.CanSend(line) {
					continue
				}

				ctx, cancel := opts.withTimeout(cmd)
				resp, err := conv.Send(ctx, line)
				cancel()
				if err != nil {
					opts.logger.Warn("chat turn failed", "error", err)
					fmt.Fprintf(out, "assistant> %s\n", recipesdk.FallbackReply)
					continue
				}
				fmt.Fprintf(out, "assistant> %s\n", resp.Reply)
			}

			if conv.Done() {
				fmt.Fprintf(out, "recipe ready: %s\n", conv.Title())
			}
			return scanner.Err()
		},
	}
}
