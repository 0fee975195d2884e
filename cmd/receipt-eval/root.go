/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "receipt-eval",
		Short:         "Receipt extraction and audit evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newAuditCommand())
	rootCmd.AddCommand(newDatasetCommand())
	rootCmd.AddCommand(newEvaluateCommand())
	rootCmd.AddCommand(newCostsCommand())

	return rootCmd
}
