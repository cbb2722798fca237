// Command llamaparse extracts text from a document using only the
// LlamaParse cloud backend and prints the extraction report as JSON on
// stdout. It shares the positional contract of pdfparse:
//
//	llamaparse <file_path> [output_format] [extract_fields] [json_schema] [processing_mode]
//
// The LLAMA_CLOUD_API_KEY environment variable must be set; when it is
// missing the tool fails fast with a JSON error and no network traffic.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BalwinderCa/cvgenix/extract"
	json "github.com/BalwinderCa/cvgenix/json"
	"github.com/BalwinderCa/cvgenix/logging"
)

var version = "0.1.0"

var (
	logStyle string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "llamaparse <file_path> [output_format] [extract_fields] [json_schema] [processing_mode]",
	Short: "LlamaParse cloud document extraction",
	Long: `llamaparse sends the input document to the LlamaParse API and emits the
parsed result as a JSON report on stdout.

Requires LLAMA_CLOUD_API_KEY. Optional extract_fields (comma-separated)
and json_schema steer structured extraction.`,
	Version: version,
	Args:    cobra.MaximumNArgs(5),
	Run: func(cmd *cobra.Command, args []string) {
		logger := logging.NewLogger(&logging.Config{
			Style: logging.Style(logStyle),
			Level: logLevel,
		})
		defer logger.Sync() //nolint:errcheck

		req, err := requestFromArgs(args)
		if err != nil {
			emitUsageError(err)
			os.Exit(1)
		}
		if req.Mode == "" {
			req.Mode = extract.ModeLLM
		}

		registry := extract.NewRegistry()
		registry.Register(extract.NewLlamaBackend(logger))
		orch := extract.NewOrchestrator(registry, logger)
		report := orch.ExtractSingle(context.Background(), "llamaparse", req)

		emitReport(report)
		if !report.Success {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logStyle, "log-style", "terminal", "Log encoding: terminal, json, noop")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func requestFromArgs(args []string) (extract.Request, error) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return extract.Request{}, fmt.Errorf(
			"usage: llamaparse <file_path> [output_format] [extract_fields] [json_schema] [processing_mode]")
	}

	req := extract.Request{FilePath: args[0], Format: extract.FormatMarkdown}

	if len(args) > 1 {
		format, ok := extract.ParseFormat(args[1])
		if !ok {
			return extract.Request{}, fmt.Errorf(
				"unknown output format %q: must be one of text, markdown, html, csv, json", args[1])
		}
		req.Format = format
	}
	if len(args) > 2 && args[2] != "" {
		for _, f := range strings.Split(args[2], ",") {
			if f = strings.TrimSpace(f); f != "" {
				req.Fields = append(req.Fields, f)
			}
		}
	}
	if len(args) > 3 {
		req.Schema = args[3]
	}
	if len(args) > 4 {
		req.Mode = extract.Mode(args[4])
	}
	return req, nil
}

func emitReport(report extract.Report) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Printf(`{"success": false, "error": %q}`+"\n", err.Error())
		return
	}
	fmt.Println(string(out))
}

func emitUsageError(err error) {
	out, merr := json.Marshal(extract.Report{Success: false, Error: err.Error()})
	if merr != nil {
		fmt.Printf(`{"success": false, "error": %q}`+"\n", err.Error())
		return
	}
	fmt.Println(string(out))
}
