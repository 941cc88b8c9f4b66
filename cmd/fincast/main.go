package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/mhollis/fincast/internal/breakeven"
	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/compare"
	"github.com/mhollis/fincast/internal/config"
	"github.com/mhollis/fincast/internal/output"
	"github.com/mhollis/fincast/internal/transform"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "fincast %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

var rootCmd = &cobra.Command{
	Use:   "fincast",
	Short: "Household financial projection CLI",
	Long:  "Deterministic and Monte Carlo projection of household finances: accounts, income, expenses, and real estate from the current age to end of plan",
}

var projectCmd = &cobra.Command{
	Use:   "project [input-file]",
	Short: "Run a deterministic year-by-year projection",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		if !fileExists(inputFile) {
			log.Fatalf("input file does not exist: %s", inputFile)
		}

		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		engine := calculation.NewProjectionEngine()
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		engine.Debug = debugMode

		projection, err := engine.RunProjection(&plan.Scenario)
		if err != nil {
			log.Fatal(err)
		}

		emitReport(cmd, &output.Report{Projection: projection})
	},
}

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo [input-file]",
	Short: "Run a Monte Carlo batch over the plan",
	Long: `Run many stochastic projections of the plan and aggregate them into
success rate, percentile bands, and depletion statistics. Settings come from
the plan file's monte_carlo section; flags override individual values.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		if !fileExists(inputFile) {
			log.Fatalf("input file does not exist: %s", inputFile)
		}

		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		mcConfig := calculation.DefaultMonteCarloConfig()
		if plan.MonteCarlo != nil {
			mcConfig.NumTrials = plan.MonteCarlo.NumTrials
			mcConfig.Seed = plan.MonteCarlo.Seed
			mcConfig.Correlation = plan.MonteCarlo.Correlation
			mcConfig.MaxParallel = plan.MonteCarlo.MaxParallel
		}
		if cmd.Flags().Changed("trials") {
			mcConfig.NumTrials, _ = cmd.Flags().GetInt("trials")
		}
		if cmd.Flags().Changed("seed") {
			mcConfig.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		if cmd.Flags().Changed("correlation") {
			mcConfig.Correlation, _ = cmd.Flags().GetFloat64("correlation")
		}
		if cmd.Flags().Changed("parallel") {
			mcConfig.MaxParallel, _ = cmd.Flags().GetInt("parallel")
		}

		debugMode, _ := cmd.Flags().GetBool("debug")

		engine := calculation.NewProjectionEngine()
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		engine.Debug = debugMode

		projection, err := engine.RunProjection(&plan.Scenario)
		if err != nil {
			log.Fatal(err)
		}

		mcEngine := calculation.NewMonteCarloEngine(mcConfig)
		if debugMode {
			mcEngine.SetLogger(simpleCLILogger{})
		}

		mcResult, err := mcEngine.Run(context.Background(), &plan.Scenario)
		if err != nil {
			log.Fatal(err)
		}

		emitReport(cmd, &output.Report{Projection: projection, MonteCarlo: mcResult})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		_, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Plan file %s is valid\n", inputFile)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare the plan against what-if variants",
	Long: `Compare the base plan against built-in what-if templates or ad-hoc
transform specs.

Examples:
  fincast compare plan.yaml --with retire_1yr_earlier,conservative
  fincast compare plan.yaml --with stress_test --format csv
  fincast compare plan.yaml --transform "shift_retirement:person=Jordan,years=-2"
  fincast compare plan.yaml --transform "scale_expenses:factor=0.8"
  fincast compare --list-templates
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		listTemplates, _ := cmd.Flags().GetBool("list-templates")
		if listTemplates {
			personName, _ := cmd.Flags().GetString("person")
			if personName == "" {
				personName = "Person" // default placeholder
			}

			registry := transform.CreateBuiltInTemplates(personName)
			fmt.Print(transform.GetTemplateHelp(registry))
			return
		}

		// Require input file for actual comparison
		if len(args) == 0 {
			log.Fatal("input file required for comparison (use --list-templates to see available templates)")
		}

		inputFile := args[0]
		if !fileExists(inputFile) {
			log.Fatalf("input file does not exist: %s", inputFile)
		}

		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		templatesStr, _ := cmd.Flags().GetString("with")
		transformSpecs, _ := cmd.Flags().GetStringArray("transform")
		personName, _ := cmd.Flags().GetString("person")
		outputFormat, _ := cmd.Flags().GetString("format")

		templateNames := transform.ParseTemplateList(templatesStr)
		if len(templateNames) == 0 && len(transformSpecs) == 0 {
			log.Fatal("nothing to compare: pass --with templates or --transform specs (or use --list-templates)")
		}

		engine := calculation.NewProjectionEngine()
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		engine.Debug = debugMode

		compareEngine := compare.NewCompareEngine(engine)
		compSet, err := compareEngine.Compare(context.Background(), &plan.Scenario, compare.CompareOptions{
			Templates:  templateNames,
			Transforms: transformSpecs,
			PersonName: personName,
			ConfigPath: inputFile,
		})
		if err != nil {
			log.Fatalf("Comparison failed: %v", err)
		}

		switch strings.ToLower(outputFormat) {
		case "csv":
			formatter := &compare.CSVFormatter{}
			out, err := formatter.Format(compSet)
			if err != nil {
				log.Fatalf("Failed to format CSV: %v", err)
			}
			fmt.Print(out)

		case "json":
			formatter := &compare.JSONFormatter{Pretty: true, OmitProjections: true}
			out, err := formatter.Format(compSet)
			if err != nil {
				log.Fatalf("Failed to format JSON: %v", err)
			}
			fmt.Print(out)

		case "table", "console", "":
			formatter := &compare.TableFormatter{}
			fmt.Print(formatter.Format(compSet))

		default:
			log.Fatalf("Unknown output format: %s (valid: table, csv, json)", outputFormat)
		}
	},
}

var breakevenCmd = &cobra.Command{
	Use:   "breakeven [input-file]",
	Short: "Find the plan's solvency break-even point",
	Long: `Bisect one plan lever until the projection sits on the edge between
solvency and depletion: the highest sustainable spending level, the
growth-rate adjustment the plan needs (or can spare), or the earliest
workable retirement boundary for one person.

Examples:
  fincast breakeven plan.yaml --target max_spending
  fincast breakeven plan.yaml --target required_return
  fincast breakeven plan.yaml --target retirement_age --person Jordan
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		if !fileExists(inputFile) {
			log.Fatalf("input file does not exist: %s", inputFile)
		}

		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		target, _ := cmd.Flags().GetString("target")
		person, _ := cmd.Flags().GetString("person")
		if person == "" && len(plan.Scenario.People) > 0 {
			person = plan.Scenario.People[0].Name
		}

		engine := calculation.NewProjectionEngine()
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		engine.Debug = debugMode

		solver := breakeven.NewDefaultSolver(engine)
		result, err := solver.Solve(context.Background(), breakeven.Request{
			Scenario: &plan.Scenario,
			Target:   breakeven.SolveTarget(target),
			Person:   person,
		})
		if err != nil {
			log.Fatalf("Break-even solve failed: %v", err)
		}

		formatter := &breakeven.TableFormatter{}
		fmt.Print(formatter.Format(result))
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Write a starter plan file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outputFile := "fincast_example.yaml"
		if len(args) == 1 {
			outputFile = args[0]
		}

		parser := config.NewInputParser()
		examplePlan := parser.CreateExamplePlan()

		if err := output.SavePlanInput(examplePlan, outputFile); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Example plan saved to %s\n", outputFile)
	},
}

// emitReport renders the report in the requested format, to stdout or, with
// --save, to a timestamped file.
func emitReport(cmd *cobra.Command, report *output.Report) {
	outputFormat, _ := cmd.Flags().GetString("format")
	saveToFile, _ := cmd.Flags().GetBool("save")

	f := output.GetFormatterByName(outputFormat)
	if f == nil {
		log.Fatalf("unknown output format: %s (valid: %s)",
			outputFormat, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	if saveToFile {
		extension := outputFormat
		if extension == "console" {
			extension = "txt"
		}
		filename, err := output.WriteFormatted(f, report, extension)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Report saved to %s\n", filename)
		return
	}

	data, err := f.Format(report)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
}

func init() {
	projectCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, html)")
	projectCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	projectCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")

	montecarloCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, html)")
	montecarloCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	montecarloCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	montecarloCmd.Flags().IntP("trials", "t", 0, "Number of trials (overrides the plan file)")
	montecarloCmd.Flags().Uint64("seed", 0, "Random seed (overrides the plan file; 0 derives from the clock)")
	montecarloCmd.Flags().Float64("correlation", 0, "Cross-account return correlation (overrides the plan file)")
	montecarloCmd.Flags().Int("parallel", 0, "Maximum parallel trial workers (overrides the plan file)")

	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().StringArray("transform", nil, "Ad-hoc transform spec \"name:param=value,...\" (repeatable)")
	compareCmd.Flags().String("person", "", "Person name for person-scoped templates (defaults to the first person)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available what-if templates")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	breakevenCmd.Flags().String("target", "max_spending", "Break-even target (max_spending, required_return, retirement_age)")
	breakevenCmd.Flags().String("person", "", "Person whose retirement boundary to shift (defaults to the first person)")
	breakevenCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(montecarloCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(breakevenCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
