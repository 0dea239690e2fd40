package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and store the session locally",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if err := m.Restore(ctx); err != nil {
			return err
		}
		if err := m.Login(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("login failed: %s", m.Current().Err)
		}

		sess := m.Current()
		fmt.Printf("Signed in as %s <%s>\n", sess.User.Name, sess.User.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
