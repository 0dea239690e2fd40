package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the locally stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := m.Restore(cmd.Context()); err != nil {
			return err
		}

		env := environment()
		sess := m.Current()
		fmt.Printf("Environment:   %s (%s)\n", env.Name, baseURL())
		if !sess.IsAuthenticated {
			fmt.Println("Session:       not signed in")
			return nil
		}
		fmt.Println("Session:       signed in")
		fmt.Printf("User:          %s <%s>\n", sess.User.Name, sess.User.Email)
		fmt.Printf("User ID:       %s\n", sess.User.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
