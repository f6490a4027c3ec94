package cmd

import (
	"os"

	"github.com/assetnote/kitedsl/internal/cli"
	"github.com/assetnote/kitedsl/pkg/context"
	"github.com/assetnote/kitedsl/pkg/dsl"
	errors2 "github.com/assetnote/kitedsl/pkg/errors"
	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/spf13/cobra"
)

var (
	callRequest    cli.Request
	defaultHeaders []string
	outputFile     string
	showHeaders    bool
	failOnError    bool
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <base-url> <method> <path>",
	Short: "send a single request through the client runtime",
	Long: `send a single request through the client runtime

the path is relative to the base url. elements in braces are path parameters
and are filled from --param, escaped so that a value stays one path element

e.g.
kitedsl call https://petstore.io/v2 GET 'pet/{id}' -p id=7
kitedsl call http://localhost:14000/api POST pets -d '{"name":"rex"}' --content-type application/json
kitedsl call https://petstore.io/v2 GET 'pet/{id}/image' -p id=7 -O rex.png
`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		base, err := cli.ParseBase(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid base url")
		}
		cfg, err := clientConfig()
		if err != nil {
			errors2.PrintError(err, 0)
			log.Fatal().Err(err).Msg("invalid client config")
		}
		headers, err := parseHeaders(defaultHeaders)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid default header")
		}

		client, err := http.NewClient("", base.Host, base.Port, base.Protocol, base.Prefix, cfg, headers)
		if err != nil {
			errors2.PrintError(err, 0)
			log.Fatal().Err(err).Msg("failed to create client")
		}
		defer client.Close()

		callRequest.Method, callRequest.Path = args[1], args[2]
		seg, err := callRequest.Segment(dsl.NewRoot(client))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid request")
		}

		resp, err := seg.Call(context.Context())
		if err != nil {
			errors2.PrintError(err, 0)
			log.Fatal().Err(err).Object("request", seg.Builder()).Msg("call failed")
		}
		log.Debug().Object("response", resp).Msg("call finished")

		colors := cli.DefaultColorScheme()
		if NoColor {
			colors = cli.NoColorScheme()
		}
		url := client.Target().URL(seg.Builder().RelativePath(), "")
		cli.PrintResponse(os.Stdout, seg.Builder().Method(), url, resp, cli.PrintOptions{
			Headers: showHeaders,
			Body:    outputFile == "",
			Colors:  colors,
		})

		if outputFile != "" {
			if err := cli.WriteBody(outputFile, resp.Body, Quiet); err != nil {
				log.Fatal().Err(err).Msg("failed to write response body")
			}
		}
		if failOnError && !resp.IsOK() {
			client.Close()
			os.Exit(22)
		}
	},
}

func init() {
	rootCmd.AddCommand(callCmd)

	addRequestFlags(callCmd, &callRequest)
	callCmd.Flags().StringArrayVar(&defaultHeaders, "default-header", nil, "client default header as 'Name: value', request headers win")
	callCmd.Flags().StringVarP(&outputFile, "output-file", "O", "", "write the response body to a file instead of stdout")
	callCmd.Flags().BoolVarP(&showHeaders, "include", "i", false, "print the response headers")
	callCmd.Flags().BoolVar(&failOnError, "fail", false, "exit with status 22 on a non 2xx response")
}
