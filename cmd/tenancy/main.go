// Command tenancy runs the housing tenancy service: the HTTP API over the
// lease, contract and review engine, plus schema and seed maintenance.
//
//	tenancy serve                 start the HTTP API
//	tenancy migrate up|down|status
//	tenancy seed -f seed.json     upsert housings and students
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "tenancy",
		Short:         "Housing tenancy lifecycle and availability service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)
	return root
}
