package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <email> <password>",
	Short: "Create an account and store the session locally",
	Args:  cobra.ExactArgs(3),
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
		if err := m.Register(ctx, args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("registration failed: %s", m.Current().Err)
		}

		sess := m.Current()
		fmt.Printf("Registered %s <%s>\n", sess.User.Name, sess.User.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
