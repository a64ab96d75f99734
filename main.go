package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

type cliFlags struct {
	config    string
	outputDir string
	font      string
	svg       bool
	gcode     bool
	check     bool
	verbose   bool
}

func parseFlags(args []string) (cliFlags, *flag.FlagSet, error) {
	var f cliFlags
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "YAML file overriding the built-in marker settings")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for generated files (default: working directory)")
	fs.StringVar(&f.font, "font", "", "Preferred TrueType/OpenType label font (default: "+DefaultFont+")")
	fs.BoolVar(&f.svg, "svg", false, "Also write a vector SVG of the clean marker")
	fs.BoolVar(&f.gcode, "gcode", false, "Also write a laser engraving G-code program")
	fs.BoolVar(&f.check, "check", false, "Compare existing outputs with a fresh render instead of writing")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Print debug diagnostics to stderr")
	err := fs.Parse(args[1:])
	return f, fs, err
}

// resolveConfig layers explicitly set flags over the config file over the
// built-in defaults.
func resolveConfig(f cliFlags, fs *flag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	if f.config != "" {
		loaded, err := LoadConfig(f.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if fs.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if fs.Changed("font") {
		cfg.Font = f.font
	}
	if fs.Changed("svg") {
		cfg.SVG = f.svg
	}
	if fs.Changed("gcode") {
		cfg.GCode = f.gcode
	}
	return cfg, cfg.Validate()
}

func printBanner(w io.Writer, title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func printNextSteps(w io.Writer, g *Generator) {
	size := formatInches(g.Config.SizeInches)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "1. Print '%s' at 100%% scale\n", g.BaseName()+"_high.png")
	fmt.Fprintf(w, "2. Verify printed marker measures exactly %s\" × %s\"\n", size, size)
	fmt.Fprintln(w, "3. Laminate for water resistance (optional)")
	fmt.Fprintln(w, "4. Distribute to tournament participants")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "For best results:")
	fmt.Fprintln(w, "- Use white matte paper (not glossy)")
	fmt.Fprintln(w, "- Print at highest quality setting")
	fmt.Fprintln(w, "- Do not resize or crop the image")
	fmt.Fprintln(w)
}

func main() {
	flags, fs, err := parseFlags(os.Args)
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	logger := newLogger(os.Stderr, flags.verbose)

	cfg, err := resolveConfig(flags, fs)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	gen, err := NewGenerator(cfg, os.Stdout, logger)
	if err != nil {
		log.Fatalf("failed to set up generator: %v", err)
	}

	if flags.check {
		printBanner(os.Stdout, "Checking ArUco marker outputs")
		mismatched, err := gen.Check()
		if err != nil {
			log.Fatalf("failed to render marker: %v", err)
		}
		if mismatched > 0 {
			fmt.Printf("%d output(s) missing or out of date\n", mismatched)
			os.Exit(1)
		}
		fmt.Println("All outputs are up to date")
		return
	}

	printBanner(os.Stdout, "ArUco Marker Generator for Fish Tournament")

	if _, err := gen.Run(); err != nil {
		log.Fatalf("failed to render marker: %v", err)
	}

	printBanner(os.Stdout, "Generation complete!")
	printNextSteps(os.Stdout, gen)
}
