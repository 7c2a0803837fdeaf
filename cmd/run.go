package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentops/cv-screener/internal/candidate"
	"github.com/talentops/cv-screener/internal/document"
	"github.com/talentops/cv-screener/internal/extract"
	"github.com/talentops/cv-screener/internal/jd"
	"github.com/talentops/cv-screener/internal/logger"
	"github.com/talentops/cv-screener/internal/pipeline"
	"github.com/talentops/cv-screener/internal/secrets"
	"github.com/talentops/cv-screener/internal/storage"
	"github.com/talentops/cv-screener/internal/suitability/gemini"
)

const (
	PromptSaveCSV    = "Save results to CSV"
	PromptReport     = "Print candidate report"
	PromptDumpToFile = "Dump candidates to file"
	PromptQuit       = "Quit"
	defaultJDFile    = "jd.txt"
	defaultIngestDir = "CVs"
	defaultAccepted  = "filtered_cvs"
	defaultRejected  = "rejected_cvs"
	defaultOutputCSV = "filtered.csv"
	defaultThreshold = 30.0
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSaveCSV, PromptReport, PromptDumpToFile, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cv-screener main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "save results without asking for confirmation")
	runCmd.Flags().Bool("no-model", false, "disable the suitability model for this run")
	runCmd.Flags().Float64P("threshold", "t", 0, "override the ATA score threshold for accepted routing")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()
	start := time.Now()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		config = &Config{}
	}
	applyDefaults(config)

	logger = logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("starting the cv-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	lexicon, err := buildLexicon(config.Lexicon)
	if err != nil {
		logger.Fatal("building lexicon", zap.Error(err))
	}

	router := storage.NewRouter(config.Ingest.Folder, config.Ingest.AcceptedFolder, config.Ingest.RejectedFolder, logger)
	router.CleanBeforeRun = config.Ingest.CleanBeforeRun
	router.ArchiveAccepted = config.Ingest.ArchiveAccepted
	if _, err := router.Prepare(); err != nil {
		logger.Fatal("preparing directories", zap.Error(err))
	}

	useModel := config.AI != nil && config.AI.Enabled
	if flag := cmd.Flag("no-model"); flag != nil && flag.Value.String() == "true" {
		useModel = false
	}

	var generator *gemini.Generator
	if useModel || config.JD.AIKeyphrases {
		generator, err = newGenerator(ctx, config.AI, logger)
		if err != nil {
			if config.AI != nil && config.AI.Required {
				logger.Fatal("building suitability model client", zap.Error(err))
			}
			logger.Warn("suitability model client unavailable, continuing without it", zap.Error(err))
			useModel = false
			generator = nil
		}
	}

	keywords := loadKeywords(ctx, config, lexicon, generator, logger)
	if len(keywords) == 0 {
		logger.Fatal("no keywords extracted from the job description",
			zap.String("file", config.JD.File),
			zap.String("hint", "check the job description content"),
		)
	}

	logger.Info("extracted job description keywords", zap.Strings("keywords", keywords))

	docs, err := document.ListFolder(config.Ingest.Folder)
	if err != nil {
		logger.Fatal("listing candidate documents", zap.Error(err))
	}

	if len(docs) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidate documents found"))
		return
	}

	logger.Info("processing candidate documents", zap.Int("count", len(docs)))

	threshold := config.Threshold
	if flag := cmd.Flag("threshold"); flag != nil && flag.Changed {
		threshold, _ = cmd.Flags().GetFloat64("threshold")
	}

	cfg := &pipeline.Config{
		Keywords:        keywords,
		Threshold:       threshold,
		UseModel:        useModel,
		ModelRequired:   config.AI != nil && config.AI.Required,
		Workers:         config.Workers,
		DocumentTimeout: config.Ingest.DocumentTimeout,
	}
	deps := &pipeline.Deps{
		Texts:  document.NewParser(),
		Fields: extract.New(lexicon, logger),
		Store:  router,
		Logger: logger,
	}
	if useModel {
		deps.Predictor = gemini.NewPredictor(generator, keywords, maxLogLength(config.AI), logger)
	}

	pipe, err := pipeline.New(cfg, deps)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}

	table, err := pipe.Run(ctx, docs)
	if err != nil {
		if table == nil || !errors.Is(err, pipeline.ErrModelUnavailable) {
			logger.Fatal("pipeline failed", zap.Error(err))
		}
		logger.Warn("continuing with ATA scores only", zap.Error(err))
	}

	if table.Len() == 0 {
		logger.Warn("no candidates matched or no documents were processed")
		return
	}

	logger.Info("candidate table ready",
		zap.Int("count", table.Len()),
		zap.Duration("duration", time.Since(start)),
	)

	action := PromptSaveCSV
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, table, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if cmd.Flag("auto-approve").Value.String() == "true" {
			return
		}
	}
}

func handleAction(action string, table *candidate.Table, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptSaveCSV:
		file, err := os.Create(config.Output.CSV)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()

		if err := table.WriteCSV(file); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		logger.Info("results saved", zap.String("filename", config.Output.CSV))
		return nil
	case PromptReport:
		for _, row := range table.Preview() {
			fmt.Println(strings.Join(row, "\t"))
		}
		return nil
	case PromptDumpToFile:
		filename, err := table.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func applyDefaults(config *Config) {
	if config.JD == nil {
		config.JD = &JDConfig{}
	}
	if config.JD.File == "" {
		config.JD.File = defaultJDFile
	}
	if config.Ingest == nil {
		config.Ingest = &IngestConfig{}
	}
	if config.Ingest.Folder == "" {
		config.Ingest.Folder = defaultIngestDir
	}
	if config.Ingest.AcceptedFolder == "" {
		config.Ingest.AcceptedFolder = defaultAccepted
	}
	if config.Ingest.RejectedFolder == "" {
		config.Ingest.RejectedFolder = defaultRejected
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}
	if config.Output.CSV == "" {
		config.Output.CSV = defaultOutputCSV
	}
	if config.Threshold == 0 {
		config.Threshold = defaultThreshold
	}
}

func buildLexicon(config *LexiconConfig) (*extract.Lexicon, error) {
	lexicon := extract.DefaultLexicon()
	if config == nil {
		return lexicon, nil
	}

	if len(config.Skills) > 0 {
		lexicon.Skills = config.Skills
	}
	if len(config.ExtraSkills) > 0 {
		lexicon.Skills = append(lexicon.Skills, config.ExtraSkills...)
	}
	if err := lexicon.Compile(); err != nil {
		return nil, err
	}
	return lexicon, nil
}

func loadKeywords(ctx context.Context, config *Config, lexicon *extract.Lexicon, generator *gemini.Generator, logger *zap.Logger) []string {
	text, err := jd.LoadText(config.JD.File)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	extractorCfg := &jd.ExtractorConfig{
		Stopwords: config.JD.Stopwords,
		TopN:      config.JD.TopN,
	}
	if config.JD.AIKeyphrases && generator != nil {
		extractorCfg.Generator = generator
	}

	return jd.ExtractKeywords(ctx, text, lexicon, extractorCfg, logger)
}

func newGenerator(ctx context.Context, config *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	if config == nil {
		return nil, errors.New("ai configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	if config.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		File:  config.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(log, logger.ProviderFields("gemini", config.Gemini.Model)...)

	return gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, genLogger)
}

func maxLogLength(config *AIConfig) int {
	if config == nil || config.Gemini == nil {
		return 0
	}
	return config.Gemini.MaxLogLength
}
