package cmd

import (
	"fmt"
	"text/tabwriter"

	"market-pos/internal/services"
	"market-pos/security"

	"github.com/spf13/cobra"
)

// NewVendorsCommand adds operator maintenance commands for vendors.
func NewVendorsCommand(vendors *services.VendorService) *cobra.Command {
	command := &cobra.Command{
		Use:   "vendors",
		Short: "Manage market vendors",
	}

	command.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List vendors with their share links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := vendors.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSHARE LINK")
			for _, v := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, vendors.ShareURL(v))
			}
			return w.Flush()
		},
	})

	command.AddCommand(&cobra.Command{
		Use:   "rotate-token <vendor-id>",
		Short: "Issue a new share token, revoking the old link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vendors.RotateToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New share link for %s: %s\n", v.Name, vendors.ShareURL(*v))
			return nil
		},
	})

	return command
}

// NewHashKeyCommand prints a bcrypt hash for OPERATOR_KEY_HASH.
func NewHashKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-operator-key <key>",
		Short: "Print the OPERATOR_KEY_HASH value for an operator key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := security.HashOperatorKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
