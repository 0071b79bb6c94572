package main

import (
	"fmt"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"github.com/spf13/cobra"
)

func newCPFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cpf",
		Short: "Validate and format CPFs offline",
	}

	var display bool
	format := &cobra.Command{
		Use:   "format <value>",
		Short: "Apply the CPF mask; partial input gets the typing mask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if display {
				fmt.Fprintln(cmd.OutOrStdout(), utils.FormatCPFDisplay(args[0]))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.FormatCPF(args[0]))
			return nil
		},
	}
	format.Flags().BoolVar(&display, "display", false, "format only complete CPFs, printing digits otherwise")

	validate := &cobra.Command{
		Use:   "validate <cpf>",
		Short: "Check the CPF check digits; exits non-zero when invalid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !utils.ValidateCPF(args[0]) {
				return fmt.Errorf("%s: %s", models.MsgInvalidCPF, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CPF válido: %s\n", utils.FormatCPFDisplay(args[0]))
			return nil
		},
	}

	cmd.AddCommand(format, validate)
	return cmd
}
