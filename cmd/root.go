package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-screener"
)

type Config struct {
	JD        *JDConfig      `mapstructure:"jd"`
	Ingest    *IngestConfig  `mapstructure:"ingest"`
	Threshold float64        `mapstructure:"threshold"`
	Workers   int            `mapstructure:"workers"`
	Output    *OutputConfig  `mapstructure:"output"`
	AI        *AIConfig      `mapstructure:"ai"`
	Lexicon   *LexiconConfig `mapstructure:"lexicon"`
}

type JDConfig struct {
	File         string   `mapstructure:"file"`
	Stopwords    []string `mapstructure:"stopwords"`
	AIKeyphrases bool     `mapstructure:"ai-keyphrases"`
	TopN         int      `mapstructure:"top-n"`
}

type IngestConfig struct {
	Folder          string        `mapstructure:"folder"`
	AcceptedFolder  string        `mapstructure:"accepted-folder"`
	RejectedFolder  string        `mapstructure:"rejected-folder"`
	CleanBeforeRun  bool          `mapstructure:"clean-before-run"`
	ArchiveAccepted bool          `mapstructure:"archive-accepted"`
	DocumentTimeout time.Duration `mapstructure:"document-timeout"`
}

type OutputConfig struct {
	CSV string `mapstructure:"csv"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Required bool          `mapstructure:"required"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type LexiconConfig struct {
	// Skills replaces the built-in skill list entirely.
	Skills []string `mapstructure:"skills"`
	// ExtraSkills extends the built-in skill list.
	ExtraSkills []string `mapstructure:"extra-skills"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-screener ranks candidate resumes against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A missing .env is fine; the original setup loads one when present.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the run command. If there is no config, we
	// can skip initialization.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
