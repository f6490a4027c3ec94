package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/spf13/cobra"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// These global variables can be configured with the corresponding lowercase flag
var (
	Verbose string // Verbose defines the logging level, either trace, debug, info, error, fatal
	Output  string // Output defines the log format, either pretty, text, json
	Quiet   bool   // Quiet hides progress bars and informational output
	NoColor bool   // NoColor disables colored response lines

	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kitedsl",
	Short: "kitedsl calls an api the way a generated client does",
	Long: `kitedsl drives the generated client runtime from the command line.
Requests are built as a chain of path and header steps, folded and sent
through one of the registered transports`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kitedsl.yaml)")

	rootCmd.PersistentFlags().StringVarP(&Verbose, "verbose", "v", "info", "level of logging verbosity. can be error,info,debug,trace")
	rootCmd.PersistentFlags().StringVarP(&Output, "output", "o", "pretty", "log format. can be json,text,pretty")
	rootCmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false, "quiet mode. hides progress bars")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "disable colored output")

	rootCmd.PersistentFlags().String("transport", "", fmt.Sprintf("client transport to use. one of %s", strings.Join(http.Transports(), ",")))
	rootCmd.PersistentFlags().Duration("timeout", 0, "timeout for a whole call, redirects included")
	rootCmd.PersistentFlags().Int("max-redirects", -1, "maximum number of redirects to follow")
	rootCmd.PersistentFlags().BoolP("insecure", "k", false, "skip tls certificate verification")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("transport", rootCmd.PersistentFlags().Lookup("transport"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("max-redirects", rootCmd.PersistentFlags().Lookup("max-redirects"))
	viper.BindPFlag("insecure", rootCmd.PersistentFlags().Lookup("insecure"))
}

func initLogging() {
	if err := log.SetFormat(viper.GetString("output")); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logging")
	}

	level := viper.GetString("verbose")
	if level != "" {
		if err := log.SetLevelString(level); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize logging")
		}
	}
	log.Debug().Str("level", level).Str("format", viper.GetString("output")).Msg("custom log settings")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigName(".kitedsl")
	}

	viper.SetEnvPrefix("kitedsl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientConfig loads the client section of the config and applies the global flags on top
func clientConfig() (*http.Config, error) {
	v := viper.Sub("client")
	if v == nil {
		v = viper.New()
	}

	var opts []http.ConfigOption
	if t := viper.GetString("transport"); t != "" {
		opts = append(opts, http.Transport(t))
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		opts = append(opts, http.Timeout(d))
	}
	if n := viper.GetInt("max-redirects"); n >= 0 {
		opts = append(opts, http.MaxRedirects(n))
	}
	if viper.GetBool("insecure") {
		opts = append(opts, http.InsecureSkipVerify(true))
	}
	return http.LoadConfig(v, opts...)
}

// parseHeaders turns Name: value flags into the default header map of a client
func parseHeaders(in []string) (map[string]string, error) {
	ret := make(map[string]string, len(in))
	for _, h := range in {
		i := strings.Index(h, ":")
		if i <= 0 {
			return nil, fmt.Errorf("malformed header %q, expected Name: value", h)
		}
		ret[strings.TrimSpace(h[:i])] = strings.TrimSpace(h[i+1:])
	}
	return ret, nil
}
