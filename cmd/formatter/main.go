// Package main provides the formatter command that tidies source tables in place.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"deliverydir/internal/config"
	"deliverydir/internal/export"
	"deliverydir/internal/normalizer"
	"deliverydir/internal/source"
	"deliverydir/internal/validator"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetPath := flag.String("path", ".", "Path to CSV file or directory to format")
	write := flag.Bool("write", false, "Write changes to file (default: false, dry-run)")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	cfg, usedPath, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Printf("⚠️  Failed to load config: %v (proceeding with defaults)\n", err)

		cfg = config.Default()
	} else if usedPath != "" {
		fmt.Printf("⚙️  Loaded configuration from: %s\n", usedPath)
	}

	v := validator.NewTableValidator(normalizer.NewProcessor(cfg.Normalizer.Rules()))

	fmt.Printf("📂 Scanning path: %s\n", *targetPath)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	fmt.Println()

	count := 0
	changed := 0
	errors := 0

	err = filepath.Walk(*targetPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("❌ Error accessing path %s: %v\n", path, err)

			errors++

			return nil
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".csv" {
			return nil
		}

		count++

		wasChanged, procErr := processFile(path, *write, delimiterFor(cfg, path), v)
		if procErr != nil {
			fmt.Printf("❌ Failed to process %s: %v\n", path, procErr)

			errors++
		} else if wasChanged {
			changed++

			if *write {
				fmt.Printf("✅ Formatted: %s\n", path)
			} else {
				fmt.Printf("📝 Would format: %s\n", path)
			}
		}

		return nil
	})

	if err != nil {
		log.Fatalf("❌ Error walking path: %v\n", err)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Scanned: %d files\n", count)
	fmt.Printf("  Changed: %d files\n", changed)
	fmt.Printf("  Errors:  %d\n", errors)

	if errors > 0 || (changed > 0 && !*write) {
		if changed > 0 && !*write {
			fmt.Println("\n💡 Run with -write to apply changes.")
		}

		os.Exit(1)
	}
}

// delimiterFor returns the delimiter of the configured source stored at path, if any.
func delimiterFor(cfg *config.Config, path string) rune {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0
	}

	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if source.IsRemote(src.File) {
			continue
		}

		if srcAbs, srcErr := filepath.Abs(src.File); srcErr == nil && srcAbs == abs {
			return src.DelimiterRune()
		}
	}

	return 0
}

// processFile cleans every data cell of the table at path. The header row is
// written back as read. Tables with short rows are reported and left untouched.
func processFile(path string, write bool, delimiter rune, v *validator.TableValidator) (bool, error) {
	table, err := source.NewLoaderWithDelimiter(delimiter).Load(path)
	if err != nil {
		return false, err
	}

	res := v.Validate(table)
	if !res.IsValid {
		res.PrintErrors()

		return false, fmt.Errorf("%d short rows", res.Stats.ShortRows)
	}

	res.PrintWarnings()

	rows, changed := normalizer.CleanRows(table.Rows)
	if !changed {
		return false, nil
	}

	if write {
		if err := export.WriteDelimited(path, delimiter, table.Header, rows); err != nil {
			return false, err
		}
	}

	return true, nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Only data cells are cleaned; header cells are kept as written.")
	fmt.Println("Rewritten files are plain UTF-8: a leading byte order mark is dropped.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter -path data")
	fmt.Println("  ./bin/formatter -path data/dsp_directory.csv -write")
}
