package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/crosstab"
	"github.com/paveg/crosstab/internal/config"
	"github.com/paveg/crosstab/internal/dataset"
	pivotio "github.com/paveg/crosstab/internal/io"
	"github.com/paveg/crosstab/internal/monitoring"
	"github.com/paveg/crosstab/internal/pivot"
	"github.com/paveg/crosstab/internal/version"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "Crosstab Pivot Library CLI (version %s)\n\n", version.Version)
	fmt.Fprintf(os.Stderr, "Usage: crosstab-cli [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --input FILE\n\t\tInput data file (.csv, .parquet, .json, .jsonl)\n")
	fmt.Fprintf(os.Stderr, "  --request FILE\n\t\tPivot request in JSON; computed against --input\n")
	fmt.Fprintf(os.Stderr, "  --output FILE\n\t\tWrite the pivot result to FILE instead of stdout\n")
	fmt.Fprintf(os.Stderr, "  --columns\n\t\tList the column names of --input and exit\n")
	fmt.Fprintf(os.Stderr, "  --config FILE\n\t\tLoad engine configuration from FILE (.json, .yaml)\n")
	fmt.Fprintf(os.Stderr, "  --demo\n\t\tRun basic demo\n")
	fmt.Fprintf(os.Stderr, "  --benchmark\n\t\tRun benchmark suite\n")
	fmt.Fprintf(os.Stderr, "  --rows N\n\t\tNumber of synthetic rows (default: 1000 for demo, 1000000 for benchmark)\n")
	fmt.Fprintf(os.Stderr, "  -v, --version\n\t\tPrint version information and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	versionFlag := flag.Bool("v", false, "Print version and exit")
	flag.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	inputFlag := flag.String("input", "", "Input data file (.csv, .parquet, .json, .jsonl)")
	requestFlag := flag.String("request", "", "Pivot request JSON file")
	outputFlag := flag.String("output", "", "Output file for the pivot result (default: stdout)")
	columnsFlag := flag.Bool("columns", false, "List the input file's column names")
	configFlag := flag.String("config", "", "Engine configuration file (.json, .yaml)")
	demoFlag := flag.Bool("demo", false, "Run basic demo")
	benchmarkFlag := flag.Bool("benchmark", false, "Run benchmark suite")
	rowsFlag := flag.Int("rows", 0, "Number of synthetic rows (default: 1000 for demo, 1000000 for benchmark)")

	// Customize usage message for -h, --help
	//nolint:reassign // Standard Go pattern for customizing flag usage message
	flag.Usage = customUsage

	flag.Parse()

	if *versionFlag {
		fmt.Print(version.Info().String())
		return
	}

	if *configFlag != "" {
		if err := applyConfig(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	var err error
	switch {
	case *columnsFlag:
		err = listColumns(*inputFlag)
	case *requestFlag != "":
		err = runPivot(*inputFlag, *requestFlag, *outputFlag)
	case *demoFlag:
		err = runDemo(*rowsFlag)
	case *benchmarkFlag:
		err = runBenchmark(*rowsFlag)
	default:
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyConfig loads an engine configuration file and installs it globally.
func applyConfig(path string) error {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

func listColumns(input string) error {
	if input == "" {
		return fmt.Errorf("--columns requires --input")
	}

	columns, err := crosstab.ListColumns(input)
	if err != nil {
		return err
	}
	for _, name := range columns {
		fmt.Println(name)
	}
	return nil
}

func runPivot(input, requestPath, output string) error {
	if input == "" {
		return fmt.Errorf("--request requires --input")
	}

	data, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("reading request file: %w", err)
	}
	var req crosstab.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parsing request file %s: %w", requestPath, err)
	}

	ds, err := crosstab.ReadFile(input, memory.NewGoAllocator())
	if err != nil {
		return err
	}
	defer ds.Release()

	result, err := crosstab.ComputePivot(ds, req)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" {
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("creating output file: %w", createErr)
		}
		defer f.Close()
		out = f
	}

	return pivotio.NewIndentedResultWriter(out).Write(result)
}

// Synthetic data parameters shared by the demo and the benchmark.
const (
	demoDefaultRows      = 1000
	benchmarkDefaultRows = 1_000_000
	baseAmount           = 10
	amountRange          = 90
	basePrice            = 1.5
	priceStep            = 0.25
	priceRange           = 40
	amountThreshold      = 50 // filter for demo step 4
)

var (
	demoRegions  = []string{"east", "west", "north", "south", "central"}
	demoProducts = []string{"widget", "gadget", "gizmo", "doohickey"}
)

func buildSyntheticColumns(rows int) (regions, products []string, amounts []int64, prices []float64) {
	regions = make([]string, rows)
	products = make([]string, rows)
	amounts = make([]int64, rows)
	prices = make([]float64, rows)
	for i := range rows {
		regions[i] = demoRegions[i%len(demoRegions)]
		products[i] = demoProducts[i%len(demoProducts)]
		amounts[i] = int64(baseAmount + i%amountRange)
		prices[i] = basePrice + float64(i%priceRange)*priceStep
	}
	return regions, products, amounts, prices
}

func runDemo(rows int) error {
	fmt.Println("📊 Crosstab Pivot Library Demo")
	fmt.Println("==============================")

	if rows == 0 {
		rows = demoDefaultRows
	}

	mem := memory.NewGoAllocator()

	fmt.Printf("Creating sample sales dataset with %d rows...\n", rows)
	regionVals, productVals, amountVals, priceVals := buildSyntheticColumns(rows)

	regions := crosstab.NewColumn("region", regionVals, mem)
	products := crosstab.NewColumn("product", productVals, mem)
	amounts := crosstab.NewColumn("amount", amountVals, mem)
	prices := crosstab.NewColumn("price", priceVals, mem)
	defer regions.Release()
	defer products.Release()
	defer amounts.Release()
	defer prices.Release()

	ds := crosstab.NewDataset(regions, products, amounts, prices)
	defer ds.Release()

	fmt.Printf("Created dataset with %d rows and %d columns\n", ds.Len(), ds.Width())
	fmt.Println("Columns:", ds.Columns())

	stdout := pivotio.NewIndentedResultWriter(os.Stdout)

	fmt.Println("\n1. Total and average amount by region:")
	result, err := crosstab.ComputePivot(ds, crosstab.Request{
		Rows: []string{"region"},
		Values: []crosstab.ValueField{
			{Field: "amount", Aggregation: crosstab.AggSum},
			{Field: "amount", Aggregation: crosstab.AggMean},
		},
	})
	if err != nil {
		return err
	}
	if err := stdout.Write(result); err != nil {
		return err
	}

	fmt.Println("\n2. Amount by region, cross-tabulated by product:")
	result, err = crosstab.ComputePivot(ds, crosstab.Request{
		Rows:    []string{"region"},
		Columns: []string{"product"},
		Values:  []crosstab.ValueField{{Field: "amount", Aggregation: crosstab.AggSum}},
	})
	if err != nil {
		return err
	}
	if err := stdout.Write(result); err != nil {
		return err
	}

	fmt.Printf("\n3. Sale count by region where amount > %d:\n", amountThreshold)
	result, err = crosstab.ComputePivot(ds, crosstab.Request{
		Rows:   []string{"region"},
		Values: []crosstab.ValueField{{Field: "amount", Aggregation: crosstab.AggCount}},
		Filters: []crosstab.FilterCondition{
			{Column: "amount", Operator: crosstab.FilterGreaterThan, Value: amountThreshold},
		},
	})
	if err != nil {
		return err
	}
	if err := stdout.Write(result); err != nil {
		return err
	}

	fmt.Println("\nDemo completed successfully! 🎉")
	return nil
}

func runBenchmark(rows int) error {
	fmt.Println("🚀 Crosstab Pivot Library Benchmark")
	fmt.Println("===================================")

	if rows == 0 {
		rows = benchmarkDefaultRows
	}

	// The engine records into the default collector when metrics collection
	// is on, so the report below can show per-operation stats.
	cfg := config.GetGlobalConfig()
	cfg.MetricsCollection = true
	config.SetGlobalConfig(cfg)
	collector := monitoring.Default()
	collector.SetEnabled(true)
	collector.Clear()

	mem := memory.NewGoAllocator()

	fmt.Printf("\nGenerating %d synthetic rows...\n", rows)
	regionVals, productVals, amountVals, priceVals := buildSyntheticColumns(rows)

	ds := dataset.New(
		dataset.NewColumn("region", regionVals, mem),
		dataset.NewColumn("product", productVals, mem),
		dataset.NewColumn("amount", amountVals, mem),
		dataset.NewColumn("price", priceVals, mem),
	)
	defer ds.Release()

	crossTabReq := pivot.Request{
		Rows:    []string{"region"},
		Columns: []string{"product"},
		Values:  []pivot.ValueField{{Field: "amount", Aggregation: pivot.AggSum}},
	}
	multiAggReq := pivot.Request{
		Rows: []string{"region"},
		Values: []pivot.ValueField{
			{Field: "amount", Aggregation: pivot.AggSum},
			{Field: "amount", Aggregation: pivot.AggCount},
			{Field: "price", Aggregation: pivot.AggMean},
			{Field: "price", Aggregation: pivot.AggStd},
		},
	}

	suite := monitoring.NewBenchmarkSuite()
	suite.AddScenario(monitoring.BenchmarkScenario{
		Name:        "sequential_scan",
		Description: "Region by product sum on a single goroutine",
		DataSize:    rows,
		Iterations:  3,
		Operation: func() error {
			_, err := pivot.ComputeWithConfig(ds, crossTabReq, config.OperationConfig{DisableParallel: true})
			return err
		},
	})
	suite.AddScenario(monitoring.BenchmarkScenario{
		Name:        "parallel_scan",
		Description: "Region by product sum on the worker pool",
		DataSize:    rows,
		Iterations:  3,
		Parallel:    true,
		Operation: func() error {
			_, err := pivot.ComputeWithConfig(ds, crossTabReq, config.OperationConfig{ForceParallel: true})
			return err
		},
	})
	suite.AddScenario(monitoring.BenchmarkScenario{
		Name:        "multi_aggregation",
		Description: "Four aggregations over two value columns",
		DataSize:    rows,
		Iterations:  3,
		Parallel:    true,
		Operation: func() error {
			_, err := pivot.ComputeWithConfig(ds, multiAggReq, config.OperationConfig{ForceParallel: true})
			return err
		},
	})

	fmt.Println("Running scenarios...")
	suite.Run()
	fmt.Println(suite.GenerateReport())

	summary := collector.GetSummary()
	fmt.Printf("Engine metrics: %d pivot operations over %d rows, average %s per operation\n",
		summary.TotalOperations, summary.TotalRows, summary.AverageDuration)

	fmt.Println("\nBenchmark suite completed successfully! 🎉")
	return nil
}
