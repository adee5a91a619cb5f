package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"habit-tracker/internal/domain/entity"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersCreatePassword string

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user with the default habits",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersCreate,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd, usersListCmd)
	usersCreateCmd.Flags().StringVar(&usersCreatePassword, "password", "", "account password")
	_ = usersCreateCmd.MarkFlagRequired("password")
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	store, services, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := services.Users.Register(cmd.Context(), args[0], usersCreatePassword)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", user.Username)
	return nil
}

func runUsersList(cmd *cobra.Command, args []string) error {
	store, services, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := services.Users.ListUsers(cmd.Context())
	if err != nil {
		return err
	}

	for _, user := range users {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", user.Username, user.CreatedAt.Format(entity.DateLayout))
	}
	return nil
}
