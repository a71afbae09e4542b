/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/quizshow/quiz"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	autoClose      bool
	awardPolicy    string
	bind           string
	configFile     string
	loadTimeout    time.Duration
	logFile        string
	loserSound     string
	media          string
	port           int
	prefix         string
	profile        bool
	questions      string
	redisAddr      string
	redisDB        int
	redisPassword  string
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	title          string
	verbose        bool
	version        bool
	winnerSound    string

	logger *zap.SugaredLogger
	policy quiz.AwardPolicy
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.questions == "" {
		return errors.New("--questions must point to a quiz document")
	}
	if c.loadTimeout <= 0 {
		return fmt.Errorf("invalid load timeout (must be positive): %s", c.loadTimeout)
	}

	policy, err := quiz.ParseAwardPolicy(c.awardPolicy)
	if err != nil {
		return err
	}
	c.policy = policy

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZSHOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizshow",
		Short:         "A Jeopardy-style quiz board for teams, served from a single binary.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigFile(cmd.Flags(), cfg.configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			cfg.logger = logger

			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.BoolVar(&cfg.autoClose, "auto-close", true, "close the question after awarding it to a team (env: QUIZSHOW_AUTO_CLOSE)")
	fs.StringVar(&cfg.awardPolicy, "award-policy", "reassign", "re-awarding a tile: reassign moves its points, forbid rejects it (env: QUIZSHOW_AWARD_POLICY)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUIZSHOW_BIND)")
	fs.StringVarP(&cfg.configFile, "config", "c", "", "path to a config file with flag values (env: QUIZSHOW_CONFIG)")
	fs.DurationVar(&cfg.loadTimeout, "load-timeout", 10*time.Second, "timeout when fetching the quiz document over http (env: QUIZSHOW_LOAD_TIMEOUT)")
	fs.StringVar(&cfg.logFile, "log-file", "", "also write json logs to this file, rotated (env: QUIZSHOW_LOG_FILE)")
	fs.StringVar(&cfg.loserSound, "loser-sound", "/media/loser.mp3", "sound played for the mod+l hotkey (env: QUIZSHOW_LOSER_SOUND)")
	fs.StringVarP(&cfg.media, "media", "m", "media", "directory served under /media, for logo, sounds and question media (env: QUIZSHOW_MEDIA)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: QUIZSHOW_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: QUIZSHOW_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: QUIZSHOW_PROFILE)")
	fs.StringVarP(&cfg.questions, "questions", "q", "questions.json", "quiz document, as a path or http(s) URL (env: QUIZSHOW_QUESTIONS)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "keep game snapshots in redis at this address (env: QUIZSHOW_REDIS_ADDR)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database number (env: QUIZSHOW_REDIS_DB)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: QUIZSHOW_REDIS_PASSWORD)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 3*time.Hour, "time before idle games are ended (env: QUIZSHOW_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: QUIZSHOW_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: QUIZSHOW_TLS_KEY)")
	fs.StringVarP(&cfg.title, "title", "t", "Quizshow", "title shown above the board (env: QUIZSHOW_TITLE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: QUIZSHOW_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: QUIZSHOW_VERSION)")
	fs.StringVar(&cfg.winnerSound, "winner-sound", "/media/winner.mp3", "sound played for the mod+ö hotkey (env: QUIZSHOW_WINNER_SOUND)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizshow v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// applyConfigFile fills in flags from a config file. Flags set on the
// command line or through the environment are already marked changed and
// take precedence.
func applyConfigFile(fs *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}

	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		if file.IsSet(f.Name) {
			err = fs.Set(f.Name, fmt.Sprintf("%v", file.Get(f.Name)))
		}
	})

	return err
}
