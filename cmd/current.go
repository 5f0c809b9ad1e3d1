package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vzahanych/owm-weather-tool/internal/service"
)

var errToolFailed = errors.New("tool call failed")

var paramFlags = []string{
	service.QParam, service.IDParam, service.LatParam, service.LonParam, service.ZipParam,
	service.UnitsParam, service.LangParam, "mode", service.AppIDParam,
}

func newCurrentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Fetch current weather once and print the result",
		Example: `  owm-weather-tool current --q London --units metric
  owm-weather-tool current --lat 51.5 --lon -0.12 --appid <key>`,
		RunE: runCurrent,
	}

	f := cmd.Flags()
	f.String(service.QParam, "", "city name")
	f.Int64(service.IDParam, 0, "city ID")
	f.Float64(service.LatParam, 0, "latitude")
	f.Float64(service.LonParam, 0, "longitude")
	f.String(service.ZipParam, "", "zip code")
	f.String(service.UnitsParam, "", "units: metric, imperial or standard")
	f.String(service.LangParam, "", "response language")
	f.String("mode", "", "response format (sent as Mode)")
	f.String(service.AppIDParam, "", "API key, overrides the configured one")

	return cmd
}

func runCurrent(cmd *cobra.Command, args []string) error {
	params, err := paramsFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	_, weather := newRegistry()
	res := weather.Execute(cmd.Context(), params)

	if err := writeJSON(cmd.OutOrStdout(), res.Value()); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", errToolFailed, res.Kind())
	}
	return nil
}

// paramsFromFlags sets only the flags given on the command line, so that
// --lat 0 is sent while an omitted --lat is not.
func paramsFromFlags(flags *pflag.FlagSet) (service.QueryParameters, error) {
	var params service.QueryParameters
	for _, name := range paramFlags {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := params.Set(name, f.Value.String()); err != nil {
			return params, err
		}
	}
	return params, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
