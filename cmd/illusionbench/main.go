package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/perceptionlab/illusionbench/internal/classifier"
	"github.com/perceptionlab/illusionbench/internal/config"
	"github.com/perceptionlab/illusionbench/internal/dataset"
	"github.com/perceptionlab/illusionbench/internal/eval"
	"github.com/perceptionlab/illusionbench/internal/features"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// debugMode enables verbose per-figure logging.
var debugMode = os.Getenv("ILLUSIONBENCH_DEBUG") != ""

func debugLog(format string, v ...interface{}) {
	if debugMode {
		log.Printf(format, v...)
	}
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("illusionbench %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printUsage()
		return
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "train":
		err = runTrain(os.Args[2:])
	case "evaluate":
		err = runEvaluate(os.Args[2:])
	case "run":
		err = runExperiment(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func printUsage() {
	fmt.Println("illusionbench - Müller-Lyer length-judgment benchmark")
	fmt.Println()
	fmt.Println("Usage: illusionbench <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  generate   Build a dataset from an experiment config and save it")
	fmt.Println("  train      Fit the linear classifier on a saved dataset")
	fmt.Println("  evaluate   Evaluate a trained classifier over a saved dataset")
	fmt.Println("  run        Full experiment: build CF, train, evaluate CF and ML")
	fmt.Println("  version    Print version information")
	fmt.Println()
	fmt.Println("Run 'illusionbench <command> -h' for command options.")
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "experiment config file (JSON)")
	outDir := fs.String("out", "", "output dataset directory")
	fs.Parse(args)

	if *configPath == "" || *outDir == "" {
		return fmt.Errorf("-config and -out are required")
	}

	exp, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	grid, err := exp.Grid()
	if err != nil {
		return err
	}

	ds, err := dataset.Build(grid)
	if err != nil {
		return err
	}
	if err := dataset.Save(ds, *outDir); err != nil {
		return err
	}

	log.Printf("generated %d figures (%d train / %d test) into %s",
		len(ds.Images), len(ds.Train), len(ds.Test), *outDir)
	return nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	dataDir := fs.String("data", "", "dataset directory")
	modelPath := fs.String("model", "", "output model file (JSON)")
	fs.Parse(args)

	if *dataDir == "" || *modelPath == "" {
		return fmt.Errorf("-data and -model are required")
	}

	ds, err := dataset.Load(*dataDir)
	if err != nil {
		return err
	}

	clf, err := trainOn(ds)
	if err != nil {
		return err
	}
	if err := clf.Save(*modelPath); err != nil {
		return err
	}

	log.Printf("trained on %d figures, model written to %s", len(ds.Train), *modelPath)
	return nil
}

func runEvaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	dataDir := fs.String("data", "", "dataset directory")
	modelPath := fs.String("model", "", "trained model file (JSON)")
	outDir := fs.String("out", "", "report output directory")
	sliceBy := fs.String("slice", "fin_angle", "comma-separated slice dimensions")
	fs.Parse(args)

	if *dataDir == "" || *modelPath == "" || *outDir == "" {
		return fmt.Errorf("-data, -model and -out are required")
	}

	ds, err := dataset.Load(*dataDir)
	if err != nil {
		return err
	}
	clf, err := classifier.Load(*modelPath)
	if err != nil {
		return err
	}

	var dims []eval.Dimension
	for _, name := range strings.Split(*sliceBy, ",") {
		d, err := eval.ParseDimension(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		dims = append(dims, d)
	}

	ex := features.NewHierarchical()
	return writeReports(clf, ex, ds, dims, nil, *outDir, "")
}

func runExperiment(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	trainConfig := fs.String("config", "", "control-figure (CF) experiment config")
	mlConfig := fs.String("ml", "", "Müller-Lyer (ML) experiment config")
	outDir := fs.String("out", "", "report output directory")
	fs.Parse(args)

	if *trainConfig == "" || *mlConfig == "" || *outDir == "" {
		return fmt.Errorf("-config, -ml and -out are required")
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(*outDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	log.Printf("run %s started", runID)

	cfExp, err := config.Load(*trainConfig)
	if err != nil {
		return err
	}
	cfGrid, err := cfExp.Grid()
	if err != nil {
		return err
	}
	cfData, err := dataset.Build(cfGrid)
	if err != nil {
		return err
	}
	log.Printf("built CF dataset: %d figures", len(cfData.Images))
	for i, li := range cfData.Images {
		debugLog("CF figure %d: label=%s top=%.1f bottom=%.1f angle=%.1f",
			i, li.Label, li.Spec.TopLength, li.Spec.BottomLength, li.Spec.FinAngleDeg)
	}

	clf, err := trainOn(cfData)
	if err != nil {
		return err
	}
	if err := clf.Save(filepath.Join(runDir, "model.json")); err != nil {
		return err
	}

	ex := features.NewHierarchical()

	// Veridical accuracy on held-out control figures.
	veridical, err := eval.Evaluate(clf, ex, cfData, eval.ByShaftLength)
	if err != nil {
		return err
	}
	log.Printf("CF veridical accuracy: %.3f over %d figures",
		veridical.Overall.Accuracy, veridical.Overall.Samples)
	if err := eval.SaveCSV(veridical, filepath.Join(runDir, "cf_veridical.csv")); err != nil {
		return err
	}

	mlExp, err := config.Load(*mlConfig)
	if err != nil {
		return err
	}
	mlGrid, err := mlExp.Grid()
	if err != nil {
		return err
	}
	mlData, err := dataset.Build(mlGrid)
	if err != nil {
		return err
	}
	log.Printf("built ML dataset: %d figures", len(mlData.Images))

	dims, err := mlExp.Dimensions()
	if err != nil {
		return err
	}
	return writeReports(clf, ex, mlData, dims, mlExp.Values, runDir, "ml_")
}

// trainOn extracts descriptors for the train partition and fits the boundary.
func trainOn(ds *dataset.Dataset) (*classifier.Linear, error) {
	ex := features.NewHierarchical()
	x, labels, err := features.Matrix(ex, ds.Images, ds.Train)
	if err != nil {
		return nil, err
	}
	return classifier.Fit(x, labels, classifier.DefaultOptions())
}

// writeReports evaluates per dimension and writes the CSV, JSON, and chart
// artifacts into dir with the given filename prefix. values, when non-nil,
// supplies the configured sweep per dimension so unpopulated values appear as
// undefined records instead of vanishing from the report.
func writeReports(p eval.Predictor, ex features.Extractor, ds *dataset.Dataset, dims []eval.Dimension, values func(eval.Dimension) []float64, dir, prefix string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, dim := range dims {
		var result *eval.Result
		var err error
		if values != nil && len(values(dim)) > 0 {
			result, err = eval.EvaluateAt(p, ex, ds, dim, values(dim))
		} else {
			result, err = eval.Evaluate(p, ex, ds, dim)
		}
		if err != nil {
			return err
		}
		log.Printf("%s: overall accuracy %.3f over %d figures",
			dim, result.Overall.Accuracy, result.Overall.Samples)

		base := prefix + dim.String()
		if err := eval.SaveCSV(result, filepath.Join(dir, base+".csv")); err != nil {
			return err
		}
		if err := eval.SaveJSON(result, filepath.Join(dir, base+".json")); err != nil {
			return err
		}

		chart := eval.Chart{
			Title:  "accuracy vs " + dim.String(),
			XLabel: dim.String(),
			Series: []eval.Series{{Name: "accuracy", Records: result.Records}},
		}
		if err := chart.SavePNG(filepath.Join(dir, base+".png")); err != nil {
			return err
		}
	}
	return nil
}
