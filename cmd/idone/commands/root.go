package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idonethis-client/lib/configutil"
	"idonethis-client/lib/restyutil"
	"idonethis-client/lib/scrapers/idonethis"
	"idonethis-client/lib/serviceutil"
	"idonethis-client/lib/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "idone",
	Short: "idone reads and writes idonethis.com journal entries from the terminal.",
}

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Calendar string `json:"calendar"`
}

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every http request and dump raw traffic to .idone/resty")
}

func createClient(ctx context.Context) *idonethis.Client {
	telemetry.InitSlog(*verbose)
	if *verbose {
		idonethis.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".idone/resty"))
	}

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	client, err := idonethis.NewClient(ctx, idonethis.ClientOptions{
		Username: cfg.Username,
		Password: cfg.Password,
		Calendar: cfg.Calendar,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}
	return client
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
