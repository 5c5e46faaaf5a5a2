package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"methodquiz/internal/dataprep"
)

func main() {
	in := flag.String("in", "", "spreadsheet to convert (.csv or .xlsx)")
	out := flag.String("out", "", "JSON output path (default: input name with .json)")
	sheet := flag.String("sheet", "", "worksheet name for .xlsx input (default: first sheet)")
	strict := flag.Bool("strict", false, "fail when the converted studies have authoring warnings")
	flag.Parse()

	if *in == "" && flag.NArg() > 0 {
		*in = flag.Arg(0)
	}
	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: convert -in studies.csv [-out studies.json] [-sheet name] [-strict]")
		os.Exit(2)
	}
	if *out == "" {
		*out = strings.TrimSuffix(*in, extension(*in)) + ".json"
	}

	if err := run(*in, *out, *sheet, *strict); err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out, sheet string, strict bool) error {
	rows, err := dataprep.ReadFile(in, sheet)
	if err != nil {
		return err
	}
	res, err := dataprep.Convert(rows)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if strict && len(res.Warnings) > 0 {
		return fmt.Errorf("%d authoring warnings, nothing written", len(res.Warnings))
	}

	if err := dataprep.WriteFile(out, res.JSON); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("Wrote %d studies (%d sub-elements) to %s\n", res.Studies, res.SubElements, out)
	return nil
}

func extension(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndexAny(path, `/\`) {
		return path[i:]
	}
	return ""
}
