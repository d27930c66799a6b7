package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kozaktomas/petface/internal/analysis"
	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/constants"
	"github.com/kozaktomas/petface/internal/detector"
	"github.com/kozaktomas/petface/internal/features"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|dir>",
	Short: "Match a photo, or every photo in a directory, against a breed catalog",
	Long: `Detect the face on each photo and list the breeds it resembles most.

With --landmarks the inputs are JSON files holding a face mesh, either a bare
array of {"x","y","z"} points or an object with a "landmarks" array, and the
detector is not contacted.

Examples:
  # Best three dog breeds for one photo
  petface analyze me.jpg

  # Five cat breeds for every photo in a directory, as JSON
  petface analyze ./photos --pet-type cat --top 5 --json

  # Analyze a stored face mesh
  petface analyze mesh.json --landmarks`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("pet-type", string(catalog.DefaultSpecies), "Catalog to match against (dog or cat)")
	analyzeCmd.Flags().Int("top", constants.DefaultTopN, "Number of breeds to list per photo")
	analyzeCmd.Flags().Bool("landmarks", false, "Inputs are JSON landmark files instead of images")
	analyzeCmd.Flags().Bool("json", false, "Print results as JSON")
}

// fileResult is one analyzed input.
type fileResult struct {
	Path   string           `json:"path"`
	Result *analysis.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	species, err := catalog.ParseSpecies(mustGetString(cmd, "pet-type"))
	if err != nil {
		return err
	}
	top := mustGetInt(cmd, "top")
	if top < 1 || top > constants.MaxTopN {
		return fmt.Errorf("--top must be between 1 and %d", constants.MaxTopN)
	}
	useLandmarks := mustGetBool(cmd, "landmarks")
	asJSON := mustGetBool(cmd, "json")

	exts := imageExtensions
	if useLandmarks {
		exts = []string{".json"}
	}
	paths, isDir, err := collectInputs(args[0], exts)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found in %s", strings.Join(exts, ", "), args[0])
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}

	var workers int
	var svc *analysis.Service
	if useLandmarks {
		svc = a.newService(nil)
		workers = 4
	} else {
		det, err := detector.New(a.cfg.Detector)
		if err != nil {
			return err
		}
		defer det.Close()
		svc = a.newService(det)
		workers = det.Concurrency()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyze := func(path string) (*analysis.Result, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if useLandmarks {
			points, err := parseLandmarks(data)
			if err != nil {
				return nil, err
			}
			res, err := svc.AnalyzeLandmarks(points, species, top)
			if err != nil {
				return nil, err
			}
			res.Filename = filepath.Base(path)
			return res, nil
		}
		return svc.AnalyzeImage(ctx, analysis.Request{
			Image:    data,
			Filename: filepath.Base(path),
			Species:  species,
			TopN:     top,
		})
	}

	var bar *progressbar.ProgressBar
	if isDir {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Analyzing faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	results := analyzeAll(ctx, paths, workers, analyze, func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	return writeResults(cmd.OutOrStdout(), results, isDir, asJSON)
}

// writeResults prints results as text or JSON. A single failed input is
// returned as an error in both modes.
func writeResults(out io.Writer, results []fileResult, isDir, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if isDir {
			return enc.Encode(results)
		}
		if err := enc.Encode(results[0]); err != nil {
			return err
		}
	} else {
		var failed int
		for _, r := range results {
			printResult(out, r)
			if r.Error != "" {
				failed++
			}
		}
		if isDir {
			fmt.Fprintf(out, "Completed: %d analyzed, %d errors\n", len(results)-failed, failed)
			return nil
		}
	}

	if results[0].Error != "" {
		return errors.New(results[0].Error)
	}
	return nil
}

// analyzeAll runs fn over paths with at most workers in flight and returns the
// results in input order. Failures are recorded per file.
func analyzeAll(ctx context.Context, paths []string, workers int, fn func(string) (*analysis.Result, error), done func()) []fileResult {
	results := make([]fileResult, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, path := range paths {
		g.Go(func() error {
			r := fileResult{Path: path}
			if err := ctx.Err(); err != nil {
				r.Error = err.Error()
			} else if res, err := fn(path); err != nil {
				r.Error = err.Error()
			} else {
				r.Result = res
			}
			results[i] = r

			mu.Lock()
			done()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// collectInputs returns path itself when it is a file, or the files directly
// inside it with one of exts, sorted by name.
func collectInputs(path string, exts []string) ([]string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	if !info.IsDir() {
		return []string{path}, false, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, true, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			paths = append(paths, filepath.Join(path, e.Name()))
		}
	}
	return paths, true, nil
}

// parseLandmarks accepts either a bare point array or {"landmarks": [...]}.
func parseLandmarks(data []byte) ([]features.Point, error) {
	var points []features.Point
	if err := json.Unmarshal(data, &points); err == nil {
		return points, nil
	}

	var wrapped struct {
		Landmarks []features.Point `json:"landmarks"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing landmarks: %w", err)
	}
	if wrapped.Landmarks == nil {
		return nil, errors.New("parsing landmarks: no \"landmarks\" array")
	}
	return wrapped.Landmarks, nil
}

func printResult(w io.Writer, r fileResult) {
	if r.Error != "" {
		fmt.Fprintf(w, "%s: error: %s\n\n", r.Path, r.Error)
		return
	}

	res := r.Result
	fmt.Fprintf(w, "%s (%s)\n", r.Path, res.PetType)
	if res.Extraction.Fallback {
		fmt.Fprintf(w, "  Landmarks unusable (%s), neutral features assumed\n", res.Extraction.Reason)
	}
	fmt.Fprintf(w, "  Face type: %s\n", res.FaceAnalysis.FaceType)
	if len(res.FaceAnalysis.DominantFeatures) > 0 {
		fmt.Fprintf(w, "  Dominant:  %s\n", strings.Join(res.FaceAnalysis.DominantFeatures, ", "))
	}
	for _, rec := range res.FaceAnalysis.Recommendations {
		fmt.Fprintf(w, "  %s\n", rec)
	}
	for i, m := range res.Matches {
		fmt.Fprintf(w, "  %d. %-20s %5.1f%%  %s\n", i+1, m.Breed, m.Similarity, strings.Join(m.MatchingFeatures, ", "))
	}
	fmt.Fprintln(w)
}
