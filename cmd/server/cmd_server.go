package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/internal/server"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// bazaar serve starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// bazaar route:list prints all registered named routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.RegisterAPI(r)

		byName := r.Routes()
		if len(byName) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH")
		fmt.Fprintln(w, "----\t----")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, byName[name])
		}
		return w.Flush()
	},
}
