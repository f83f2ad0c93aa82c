package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/drawdown/internal/domain/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fit one pumping test from a YAML or JSON file",
	Long: `Reads an analysis request (the body accepted by POST /v1/analyses) from a
file or stdin, fits it locally and prints the result as JSON.

  drawdown analyze -f test.yaml
  drawdown synth --method theis | drawdown analyze -f -`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringP("file", "f", "-", "request file; - reads stdin")
	f.String("method", "", "override the request method")
	f.Bool("refit", false, "refit Cooper-Jacob data over the validity range only")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	req, err := readRequest(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("method"); name != "" {
		m, err := model.ParseMethod(name)
		if err != nil {
			return err
		}
		req.Method = m
	}
	if refit, _ := cmd.Flags().GetBool("refit"); refit {
		req.RefitExcluded = true
	}

	svc := newService()
	res, fitErr := svc.Analyze(cmd.Context(), req)
	if res != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "write result")
		}
	}
	return fitErr
}

// readRequest decodes a request from path, or from stdin when path is "-".
// JSON input is accepted since it is valid YAML.
func readRequest(stdin io.Reader, path string) (model.Request, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return model.Request{}, eris.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var req model.Request
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		return model.Request{}, eris.Wrap(err, "decode request")
	}
	return req, nil
}
