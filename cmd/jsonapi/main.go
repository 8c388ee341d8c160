package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	jsonapi "github.com/am-/json-api"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	case "fmt":
		fmtCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jsonapi CLI\n\nUsage:\n  jsonapi validate [-many|-errors] [-yaml] [file]\n  jsonapi fmt [-many|-errors] [file]\n\nReads from stdin when no file is given.")
}

type docFlags struct {
	many   bool
	errdoc bool
	yaml   bool
}

func parseDocFlags(fs *flag.FlagSet, withYAML bool) *docFlags {
	df := &docFlags{}
	fs.BoolVar(&df.many, "many", false, "decode data as a resource collection")
	fs.BoolVar(&df.errdoc, "errors", false, "decode a top-level error document")
	if withYAML {
		fs.BoolVar(&df.yaml, "yaml", false, "treat input as YAML")
	}
	return df
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	df := parseDocFlags(fs, true)
	_ = fs.Parse(args)
	input := readInput(fs.Args())

	if err := decodeAny(input, df); err != nil {
		reportIssues(err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func fmtCmd(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	df := parseDocFlags(fs, true)
	_ = fs.Parse(args)
	input := readInput(fs.Args())

	out, err := reencode(input, df)
	if err != nil {
		reportIssues(err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// decodeAny runs the decode matching the requested document shape.
func decodeAny(input []byte, df *docFlags) error {
	_, err := reencode(input, df)
	return err
}

// reencode decodes the input and renders it back in canonical wire form.
func reencode(input []byte, df *docFlags) ([]byte, error) {
	switch {
	case df.errdoc:
		var (
			d   jsonapi.ErrorDocument
			err error
		)
		if df.yaml {
			d, err = jsonapi.DecodeErrorsYAML(input)
		} else {
			d, err = jsonapi.DecodeErrors(input)
		}
		if err != nil {
			return nil, err
		}
		return jsonapi.MarshalErrors(d)
	case df.many:
		var (
			d   jsonapi.Document[[]jsonapi.Resource]
			err error
		)
		if df.yaml {
			d, err = jsonapi.DecodeManyYAML(input)
		} else {
			d, err = jsonapi.DecodeMany(input)
		}
		if err != nil {
			return nil, err
		}
		return jsonapi.Marshal(d)
	default:
		var (
			d   jsonapi.Document[jsonapi.Resource]
			err error
		)
		if df.yaml {
			d, err = jsonapi.DecodeOneYAML(input)
		} else {
			d, err = jsonapi.DecodeOne(input)
		}
		if err != nil {
			return nil, err
		}
		return jsonapi.Marshal(d)
	}
}

func readInput(args []string) []byte {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("reading stdin: %v", err)
		}
		return data
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fatalf("reading %s: %v", args[0], err)
	}
	return data
}

func reportIssues(err error) {
	if iss, ok := jsonapi.AsIssues(err); ok {
		for _, it := range iss {
			fmt.Fprintf(os.Stderr, "%s at %s: %s\n", it.Code, it.Path, it.Message)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
