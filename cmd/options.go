package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the room types and neighbourhoods available for filtering",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("options"); err != nil {
			return err
		}

		env := newAppEnv(cfg)
		defer env.Close()

		opts, err := env.Session.Options(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Tipos de habitación:")
		for _, rt := range opts.RoomTypes {
			fmt.Fprintf(w, "  %s\n", rt)
		}
		fmt.Fprintln(w, "Barrios:")
		for _, n := range opts.Neighbourhoods {
			fmt.Fprintf(w, "  %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
