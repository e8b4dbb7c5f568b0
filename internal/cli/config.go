package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bjaus/anyconv"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName        = "anyconv"
	configFileName = "config"
	configFileType = "yaml"

	keyOutputFormat = "output-format"
	keyVerbose      = "verbose"
)

// setup loads configuration and builds the logger. Settings resolve as flag,
// then ANYCONV_* environment variable, then config file, then default.
func (a *app) setup(cmd *cobra.Command) error {
	v := a.config
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyOutputFormat, anyconv.JSON.String())
	v.SetDefault(keyVerbose, false)

	flags := cmd.Root().PersistentFlags()
	for _, key := range []string{keyOutputFormat, keyVerbose} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	if err := a.readConfig(); err != nil {
		return err
	}

	a.log = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: appName})
	if v.GetBool(keyVerbose) {
		a.log.SetLevel(log.DebugLevel)
	}
	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug("loaded config", "file", used)
	}
	return nil
}

func (a *app) readConfig() error {
	v := a.config
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
		return nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		// No home to look in; defaults and environment still apply.
		return nil
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(filepath.Join(dir, appName))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// outputFormatFor picks the output format for a destination: an explicit
// flag wins, then the destination's extension, then configuration.
func (a *app) outputFormatFor(cmd *cobra.Command, dest string) string {
	if cmd.Flags().Changed(keyOutputFormat) {
		return a.outputFormat
	}
	if f := formatFromPath(dest); f != "" {
		return f
	}
	return a.config.GetString(keyOutputFormat)
}
