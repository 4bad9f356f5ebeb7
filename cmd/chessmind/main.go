// Command chessmind answers chess questions from the command line: best move
// for a FEN, a static position analysis, or validation and safety assessment
// of a natural-language move suggestion.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/halcyonix/chessmind/internal/advisor"
	"github.com/halcyonix/chessmind/internal/analysis"
	"github.com/halcyonix/chessmind/internal/book"
	"github.com/halcyonix/chessmind/internal/engine"
	"github.com/halcyonix/chessmind/internal/rules"
	"github.com/halcyonix/chessmind/internal/storage"
)

var (
	fenFlag        = flag.String("fen", rules.StartingPosition().FEN(), "position to work on, in FEN")
	difficultyFlag = flag.String("difficulty", "", "easy, medium or hard (default from stored preferences)")
	analyzeFlag    = flag.Bool("analyze", false, "print the position analysis instead of searching")
	validateFlag   = flag.String("validate", "", "validate a move suggestion like \"knight from g1 to f3\"")
	noticeFlag     = flag.String("notice", "", "scan free text for risky move suggestions")
	depthFlag      = flag.Int("depth", 0, "override the difficulty's base search depth")
	noStoreFlag    = flag.Bool("no-store", false, "skip the preference/book database")
	verboseFlag    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verboseFlag {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	switch {
	case *analyzeFlag:
		a, err := analysis.Analyze(*fenFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("analysis failed")
		}
		printJSON(log, a)

	case *validateFlag != "":
		v, err := advisor.ValidateMoveSuggestion(*fenFlag, *validateFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("validation failed")
		}
		sa, err := advisor.AssessMoveSuggestionSafety(*fenFlag, *validateFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("safety assessment failed")
		}
		printJSON(log, struct {
			Validation advisor.Validation       `json:"validation"`
			Safety     advisor.SafetyAssessment `json:"safety"`
		}{v, sa})

	case *noticeFlag != "":
		notice, err := advisor.GenerateSafetyNotice(*fenFlag, *noticeFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("safety notice failed")
		}
		if notice == "" {
			notice = "No safety concerns found."
		}
		fmt.Println(notice)

	default:
		bestMove(log)
	}
}

func bestMove(log zerolog.Logger) {
	prefs, openingBook := warmStart(log)

	difficultyName := *difficultyFlag
	if difficultyName == "" {
		difficultyName = prefs.Difficulty
	}
	difficulty, err := engine.ParseDifficulty(difficultyName)
	if err != nil {
		log.Fatal().Err(err).Msg("bad difficulty")
	}
	if *depthFlag > 0 {
		settings := engine.DifficultySettings[difficulty]
		settings.BaseDepth = *depthFlag
		engine.DifficultySettings[difficulty] = settings
	}

	eng := engine.New(engine.Config{
		TTSizeMB:     prefs.TTSizeMB,
		Book:         openingBook,
		BookPlyLimit: prefs.BookPlyLimit,
		Logger:       log,
	})

	result, err := eng.GetBestMove(*fenFlag, difficulty, nil, true)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	if result == nil {
		fmt.Println(`{"gameOver": true}`)
		return
	}
	printJSON(log, result)
}

// warmStart loads preferences and the learned book overlay from the local
// store. Storage problems degrade to defaults; the engine itself never needs
// the database.
func warmStart(log zerolog.Logger) (*storage.Preferences, *book.Book) {
	prefs := storage.DefaultPreferences()
	openingBook := book.New()

	if *noStoreFlag {
		return prefs, openingBook
	}

	store, err := storage.OpenDefault()
	if err != nil {
		log.Warn().Err(err).Msg("store unavailable, using defaults")
		return prefs, openingBook
	}
	defer store.Close()

	if loaded, err := store.LoadPreferences(); err != nil {
		log.Warn().Err(err).Msg("could not load preferences")
	} else {
		prefs = loaded
	}

	if !prefs.BookEnabled {
		return prefs, nil
	}
	if overlay, err := store.LoadBookOverlay(); err != nil {
		log.Warn().Err(err).Msg("could not load book overlay")
	} else if len(overlay) > 0 {
		openingBook.Merge(overlay)
		log.Debug().Int("positions", len(overlay)).Msg("book overlay merged")
	}
	return prefs, openingBook
}

func printJSON(log zerolog.Logger, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
	fmt.Println(string(data))
}
