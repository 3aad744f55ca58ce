package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		return runConvert(os.Args[1:])
	}

	switch os.Args[1] {
	case "convert", "build":
		return runConvert(os.Args[2:])
	case "watch":
		return runWatch(os.Args[2:])
	case "--version", "-v":
		fmt.Println("ts2rs", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		if strings.HasPrefix(os.Args[1], "-") {
			return runConvert(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("ts2rs - converts TypeScript surface type declarations to Rust")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ts2rs [flags]             Convert once (default)")
	fmt.Println("  ts2rs convert [flags]     Convert once")
	fmt.Println("  ts2rs watch [flags]       Convert, then re-convert on source changes")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Convert Flags:")
	fmt.Println("  --project, -p <path>   Path to tsconfig.json (default: tsconfig.json)")
	fmt.Println("  --config <path>        Path to ts2rs.config.json")
	fmt.Println("  --entry <path>         Entry module (overrides config entry_file)")
	fmt.Println("  --out <path>           Output path for the rendered Rust file")
	fmt.Println("  --strict               Disallow json_value fallback; fail instead")
	fmt.Println("  --check                Render to a buffer and diff against --out without writing")
	fmt.Println("  --dump-ir              Dump the collected IR as JSON to stdout instead of Rust")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ts2rs")
	fmt.Println("  ts2rs convert --entry src/api/types.ts --out src/generated/types.rs")
	fmt.Println("  ts2rs watch --config ts2rs.config.json")
	fmt.Println("  ts2rs --check --out src/generated/types.rs")
	fmt.Println()
}
