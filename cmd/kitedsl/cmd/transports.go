package cmd

import (
	"fmt"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/spf13/cobra"
)

// transportsCmd represents the transports command
var transportsCmd = &cobra.Command{
	Use:   "transports",
	Short: "list the registered client transports",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range http.Transports() {
			if t == http.DefaultTransport {
				fmt.Printf("%s (default)\n", t)
				continue
			}
			fmt.Println(t)
		}
	},
}

func init() {
	rootCmd.AddCommand(transportsCmd)
}
