// Package cli implements storectl, the operator command line for querying
// the upstream catalog through the storefront's cached client.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pageza/foodtrove/config"
	"github.com/pageza/foodtrove/internal/cache"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/service"
)

const envPrefix = "FOODTROVE"

type app struct {
	v    *viper.Viper
	data *service.DataService
}

// NewRootCommand builds the storectl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "storectl",
		Short: "Query the FoodTrove catalog from the command line",
		Long: `storectl reads tags and recipes from the upstream demo API using the
same client and cache the storefront uses.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./storectl.yaml)")
	flags.String("api-url", config.DefaultAPIBaseURL, "base URL of the upstream API")
	flags.Duration("timeout", 15*time.Second, "upstream request timeout")
	flags.Bool("json", false, "print JSON instead of text")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = a.v.BindPFlag("json", flags.Lookup("json"))

	root.AddCommand(
		a.tagsCommand(),
		a.resolveTagCommand(),
		a.recipesCommand(),
		a.recipeCommand(),
	)
	return root
}

func (a *app) init() error {
	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName("storectl")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
	}

	a.v.SetEnvPrefix(envPrefix)
	// FOODTROVE_API_URL for api_url
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.v.GetString("config") != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := client.New(strings.TrimRight(a.v.GetString("api_url"), "/"), a.v.GetDuration("timeout"))
	a.data = service.NewDataService(c, c, cache.NewMemoryStore(), config.DefaultCacheTTL)
	return nil
}

func (a *app) jsonOutput() bool {
	return a.v.GetBool("json")
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
