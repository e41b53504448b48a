package main

import (
	"fmt"

	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/spf13/cobra"
)

func newSignupCmd(opts *options) *cobra.Command {
	var (
		req      recipesdk.SignupRequest
		noEmails bool
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			if noEmails {
				wants := false
				req.WantsEmails = &wants
			}

			resp, err := opts.client.Signup(ctx, req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (user id %d)\n", resp.Message, resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Display name (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	cmd.Flags().BoolVar(&noEmails, "no-emails", false, "Opt out of recipe emails")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long: `Log in and print an access token.

Export it to run authenticated commands:

  export RECIPES_TOKEN=$(recipectl login --email me@example.com --password ...)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			resp, err := opts.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			opts.logger.Debug("logged in", "user_id", resp.UserID, "expires_in", resp.ExpiresIn)

			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newMeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.withTimeout(cmd)
			defer cancel()

			me, err := opts.client.Me(ctx)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), me)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %d\n", me.ID)
			fmt.Fprintf(out, "username: %s\n", me.Username)
			fmt.Fprintf(out, "email:    %s\n", me.Email)
			fmt.Fprintf(out, "admin:    %t\n", me.IsAdmin)
			fmt.Fprintf(out, "emails:   %t\n", me.WantsEmails)
			return nil
		},
	}
}
