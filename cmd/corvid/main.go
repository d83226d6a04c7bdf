package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/corvid-db/corvid/internal/config"
	"github.com/corvid-db/corvid/pkg/engine"
	"github.com/corvid-db/corvid/pkg/monitor"
)

const banner = `
 ██████╗ ██████╗ ██████╗ ██╗   ██╗██╗██████╗
██╔════╝██╔═══██╗██╔══██╗██║   ██║██║██╔══██╗
██║     ██║   ██║██████╔╝██║   ██║██║██║  ██║
██║     ██║   ██║██╔══██╗╚██╗ ██╔╝██║██║  ██║
╚██████╗╚██████╔╝██║  ██║ ╚████╔╝ ██║██████╔╝
 ╚═════╝ ╚═════╝ ╚═╝  ╚═╝  ╚═══╝  ╚═╝╚═════╝

 corvid — an in-memory relational engine core
`

func main() {
	var (
		queryFile    = flag.String("query", "", "File containing one or more SQL statements")
		queryText    = flag.String("sql", "", "SQL text (one or more ; separated statements)")
		configFile   = flag.String("config", "", "Configuration file path")
		outputFormat = flag.String("output", "", "Output format: table, json (overrides config)")
		verbose      = flag.Bool("verbose", false, "Verbose mode")
		slowMs       = flag.Int("slow", 0, "Log a SLOW_STATEMENT alert at or above this duration in milliseconds")
		showHelp     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *showHelp {
		fmt.Print(banner)
		showUsage()
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *outputFormat != "" {
		cfg.Output.Format = *outputFormat
	}

	e := engine.New(*cfg)
	if *slowMs > 0 {
		sm := monitor.NewStatementMonitor()
		sm.AddRule(&monitor.SlowStatementRule{Threshold: time.Duration(*slowMs) * time.Millisecond})
		sm.AddRule(&monitor.FullTableScanRule{RowThreshold: 1000})
		sm.AddRule(&monitor.ExecutionErrorRule{})
		sm.AddHandler(monitor.ConsoleAlertHandler)
		e.SetMonitor(sm)
	}

	var text string
	switch {
	case *queryFile != "":
		content, err := os.ReadFile(*queryFile)
		if err != nil {
			fmt.Printf("Error reading query file: %v\n", err)
			os.Exit(1)
		}
		text = string(content)
	case *queryText != "":
		text = *queryText
	default:
		showUsage()
		os.Exit(1)
	}

	if *verbose {
		fmt.Print(banner)
		fmt.Printf("Executing:\n%s\n\n", text)
	}

	results := e.ExecuteBatch(text)
	exitCode := 0
	for i, r := range results {
		if r.Err != nil {
			fmt.Printf("statement %d: error: %v\n", i+1, r.Err)
			exitCode = 1
			continue
		}
		if r.Result == nil {
			continue
		}
		if err := printResult(r.Result, cfg.Output.Format); err != nil {
			fmt.Printf("statement %d: %v\n", i+1, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func printResult(rs *engine.ResultSet, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(map[string]any{
			"columns": rs.Columns,
			"rows":    rs.Rows,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	case "table", "":
		fmt.Print(rs.String())
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func showUsage() {
	fmt.Println("corvid — an in-memory relational engine core")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  corvid -query file.sql         Run statements from a file")
	fmt.Println(`  corvid -sql "SELECT * FROM t;"  Run statements from the command line`)
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -output FORMAT   Output format: table, json (default: table)")
	fmt.Println("  -config FILE     Configuration file path")
	fmt.Println("  -slow MS         Log SLOW_STATEMENT alerts at or above this many milliseconds")
	fmt.Println("  -verbose         Enable verbose output")
	fmt.Println("  -help            Show this help")
}
