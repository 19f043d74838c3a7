package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clubnexus/internal/membership"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate member files (YAML or JSON) without importing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				inputs, err := membership.LoadMembersFile(path)
				if err != nil {
					return err
				}
				for i, in := range inputs {
					problems := membership.CheckInput(in)
					if len(problems) == 0 {
						continue
					}
					invalid++
					fmt.Fprintf(out, "%s: entry %d (member %d):\n", path, i+1, in.MemberNumber)
					for _, p := range problems {
						fmt.Fprintf(out, "  - %s\n", p)
					}
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid member(s)", invalid)
			}
			fmt.Fprintln(out, "all members valid")
			return nil
		},
	}
}
