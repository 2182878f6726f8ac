// Command ethicscalc scores experiences and validates desires from a JSON
// batch file, or from a generated demo batch.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/wellbeing/internal/desire"
	"github.com/talgya/wellbeing/internal/experience"
	"github.com/talgya/wellbeing/internal/scenario"
)

// batch is the input file format. Experiences are raw magnitudes and go
// through experience.New, so they are clamped. States decode through
// desire.NewState, so invalid needs fall back to the defaults.
type batch struct {
	Experiences []rawExperience `json:"experiences"`
	Desires     []desire.Desire `json:"desires"`
}

// rawExperience keeps absent magnitudes nil so they can be rejected rather
// than read as 0.
type rawExperience struct {
	Pain             *float64 `json:"pain"`
	PleasureQuantity *float64 `json:"pleasure_quantity"`
	PleasureQuality  *float64 `json:"pleasure_quality"`
}

func (r rawExperience) experience() (experience.Experience, error) {
	if r.Pain == nil || r.PleasureQuantity == nil || r.PleasureQuality == nil {
		return experience.Experience{}, fmt.Errorf(
			"%w: pain, pleasure_quantity and pleasure_quality are required", experience.ErrInvalidInput)
	}
	return experience.New(*r.Pain, *r.PleasureQuantity, *r.PleasureQuality)
}

type summary struct {
	experiences int
	total       float64
	desires     int
	admitted    int
	rejected    map[desire.Reason]int
}

func main() {
	file := flag.String("file", "", "JSON batch file ({\"experiences\":[...],\"desires\":[...]}); - for stdin")
	demo := flag.Int("demo", 0, "Evaluate N generated experiences and desires instead of a file")
	seed := flag.Int64("seed", 42, "Seed for -demo")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	start := time.Now()
	sum := newSummary()

	switch {
	case *demo > 0:
		if err := runDemo(os.Stdout, *demo, *seed, &sum); err != nil {
			slog.Error("demo failed", "error", err)
			os.Exit(1)
		}
	case *file != "":
		b, err := readBatch(*file)
		if err != nil {
			slog.Error("failed to read batch", "file", *file, "error", err)
			os.Exit(1)
		}
		if err := runBatch(os.Stdout, b, &sum); err != nil {
			slog.Error("batch failed", "error", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	sum.print(os.Stdout, start)
}

func readBatch(path string) (*batch, error) {
	if path == "-" {
		return decodeBatch(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeBatch(f)
}

func decodeBatch(r io.Reader) (*batch, error) {
	var b batch
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &b, nil
}

func runBatch(w io.Writer, b *batch, sum *summary) error {
	for i, raw := range b.Experiences {
		e, err := raw.experience()
		if err != nil {
			return fmt.Errorf("experience %d: %w", i, err)
		}
		if err := sum.experience(w, i, e); err != nil {
			return err
		}
	}
	for i, v := range desire.EvaluateAll(b.Desires) {
		sum.verdict(w, i, v)
	}
	return nil
}

func runDemo(w io.Writer, n int, seed int64, sum *summary) error {
	gen := scenario.New(seed)
	slog.Debug("generating demo batch", "n", n, "seed", seed)
	for i := range n {
		if err := sum.experience(w, i, gen.Experience(i)); err != nil {
			return err
		}
	}
	for i, v := range desire.EvaluateAll(gen.Batch(n)) {
		sum.verdict(w, i, v)
	}
	return nil
}

func newSummary() summary {
	return summary{rejected: make(map[desire.Reason]int)}
}

func (s *summary) experience(w io.Writer, i int, e experience.Experience) error {
	score, err := experience.WellBeing(e)
	if err != nil {
		return fmt.Errorf("experience %d: %w", i, err)
	}
	s.experiences++
	s.total += score
	fmt.Fprintf(w, "experience %-4d pain=%-5.2f pleasure=%-5.2f quality=%-5.2f  wellbeing=%+.2f\n",
		i, e.Pain.Quantity, e.Pleasure.Quantity, e.Pleasure.Quality, score)
	return nil
}

func (s *summary) verdict(w io.Writer, i int, v desire.Verdict) {
	s.desires++
	if v.Admitted {
		s.admitted++
		fmt.Fprintf(w, "desire     %-4d ADMITTED\n", i)
		return
	}
	s.rejected[v.Reason]++
	fmt.Fprintf(w, "desire     %-4d REJECTED %s (%s)\n", i, v.Reason, v.Detail)
}

func (s *summary) print(w io.Writer, start time.Time) {
	fmt.Fprintln(w)
	if s.experiences > 0 {
		fmt.Fprintf(w, "%s experiences, mean well-being %+.2f\n",
			humanize.Comma(int64(s.experiences)), s.total/float64(s.experiences))
	}
	if s.desires > 0 {
		fmt.Fprintf(w, "%s desires: %s admitted (%s)\n",
			humanize.Comma(int64(s.desires)), humanize.Comma(int64(s.admitted)),
			humanize.FtoaWithDigits(100*float64(s.admitted)/float64(s.desires), 1)+"%")
		for _, r := range []desire.Reason{
			desire.ExistenceTestFailure,
			desire.RationalityTestFailure,
			desire.ReasonabilityTestFailure,
		} {
			if n := s.rejected[r]; n > 0 {
				fmt.Fprintf(w, "  %-26s %s\n", r, humanize.Comma(int64(n)))
			}
		}
	}
	fmt.Fprintf(w, "done in %s\n", time.Since(start).Round(time.Microsecond))
}
