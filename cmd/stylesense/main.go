package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-style-kit/pkg/config"
	"github.com/shouni/gemini-style-kit/pkg/logging"
)

var (
	configFlag   string
	logLevelFlag string
	cfg          config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stylesense",
	Short: "AI fashion advisor backed by Gemini",
	Long: `stylesense turns style preferences into fashion advice and outfit images.

Examples:
  stylesense advice -q "What should I wear to a summer wedding?" --style Formal --occasion Wedding
  stylesense outfits --reference me.jpg --colors "Navy, Beige" --out ./looks
  stylesense serve --addr :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			loaded.Log.Level = logLevelFlag
		}
		cfg = loaded
		logging.Init(cfg.Log.Level, cfg.Log.Console)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newServeCmd(), newAdviceCmd(), newOutfitsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
