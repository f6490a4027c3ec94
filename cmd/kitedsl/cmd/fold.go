package cmd

import (
	"errors"
	"os"

	"github.com/assetnote/kitedsl/internal/cli"
	"github.com/assetnote/kitedsl/pkg/dsl"
	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/spf13/cobra"
)

var (
	foldRequest cli.Request
	foldBase    string
	foldFormat  string
)

// foldCmd represents the fold command
var foldCmd = &cobra.Command{
	Use:   "fold <method> <path>",
	Short: "print the request a call would send without sending it",
	Long: `print the request a call would send without sending it

with --base the configured client is created, so the url and the request
charset are shown as a call would send them

e.g.
kitedsl fold GET 'users/{id}/pets' -p id=7 -Q limit=10
kitedsl fold POST pets -d '{"name":"rex"}' --content-type application/json --base https://petstore.io/v2 --format yaml
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var client http.Client
		if foldBase != "" {
			base, err := cli.ParseBase(foldBase)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid base url")
			}
			cfg, err := clientConfig()
			if err != nil {
				log.Fatal().Err(err).Msg("invalid client config")
			}
			client, err = http.NewClient("", base.Host, base.Port, base.Protocol, base.Prefix, cfg, nil)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create client")
			}
			defer client.Close()
		}

		foldRequest.Method, foldRequest.Path = args[0], args[1]
		seg, err := foldRequest.Segment(dsl.NewRoot(client))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid request")
		}
		// a fold without a base has no client, which is all Err reports then
		if err := seg.Err(); err != nil && !errors.Is(err, http.ErrNoClient) {
			log.Fatal().Err(err).Msg("failed to prepare request")
		}

		var target *http.Target
		if client != nil {
			target = client.Target()
		}
		view := cli.NewFoldView(seg.Builder(), target, seg.Body())
		if seg.Body() == nil && client == nil && foldRequest.Body != "" {
			body := foldRequest.Body
			view.Body = &body
		}
		if err := cli.WriteFold(os.Stdout, view, cli.FoldFormat(foldFormat)); err != nil {
			log.Fatal().Err(err).Msg("failed to print fold")
		}
	},
}

func init() {
	rootCmd.AddCommand(foldCmd)

	addRequestFlags(foldCmd, &foldRequest)
	foldCmd.Flags().StringVar(&foldBase, "base", "", "base url of the client, e.g. https://petstore.io/v2")
	foldCmd.Flags().StringVar(&foldFormat, "format", string(cli.FoldTable), "output format. can be table,json,yaml,raw")
}
