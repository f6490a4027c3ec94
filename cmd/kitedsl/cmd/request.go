package cmd

import (
	"github.com/assetnote/kitedsl/internal/cli"
	"github.com/spf13/cobra"
)

// addRequestFlags binds the flags describing a request to r. call and fold share them
func addRequestFlags(cmd *cobra.Command, r *cli.Request) {
	cmd.Flags().StringArrayVarP(&r.PathParams, "param", "p", nil, "path parameter as name=value, fills {name} in the path")
	cmd.Flags().StringArrayVarP(&r.Headers, "header", "H", nil, "header as 'Name: value'. may be repeated")
	cmd.Flags().StringArrayVarP(&r.Query, "query", "Q", nil, "query parameter as key=value. repeat a key to send it repeatedly")
	cmd.Flags().StringArrayVarP(&r.Form, "form", "f", nil, "form parameter as key=value")
	cmd.Flags().StringArrayVar(&r.Files, "file", nil, "multipart file part as name=path")
	cmd.Flags().StringVarP(&r.Body, "data", "d", "", "request body, sent as given")
	cmd.Flags().StringVar(&r.BodyFile, "data-file", "", "read the request body from a file, - for stdin")
	cmd.Flags().StringVar(&r.Accept, "accept", "", "Accept header unless one is set with -H")
	cmd.Flags().StringVar(&r.ContentType, "content-type", "", "Content-Type header unless one is set with -H")
}
