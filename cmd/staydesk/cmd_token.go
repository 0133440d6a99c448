package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/app"
)

var tokenEmail string

// staydesk token:issue --email owner@staydesk.test
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue",
	Short: "Mint a bearer token for an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB(cmd.Context())
		if err != nil {
			return err
		}

		token, err := services.NewAuthService(db).IssueToken(cmd.Context(), tokenEmail)
		if err != nil {
			return fmt.Errorf("issue token for %s: %w", tokenEmail, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "email of the user")
	_ = tokenIssueCmd.MarkFlagRequired("email")
}
