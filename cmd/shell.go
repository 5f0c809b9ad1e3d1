package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"github.com/vzahanych/owm-weather-tool/internal/service"
	"github.com/vzahanych/owm-weather-tool/internal/tool"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt for calling get_current_weather",
		Long: `Each line is a list of parameter assignments, for example:
  q=London units=metric
  lat=35.68 lon=139.69 lang=ja
Type "exit" to leave.`,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	_, weather := newRegistry()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	fmt.Fprintln(out, "get_current_weather shell, type \"exit\" to leave")

	p := prompt.New(
		shellExecutor(cmd.Context(), weather, out, errOut),
		shellCompleter,
		prompt.OptionPrefix("weather> "),
		prompt.OptionTitle("owm-weather-tool"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && isExit(in)
		}),
	)
	p.Run()
	return nil
}

func shellExecutor(ctx context.Context, weather *tool.CurrentWeatherTool, out, errOut io.Writer) func(string) {
	return func(line string) {
		line = strings.TrimSpace(line)
		if line == "" || isExit(line) {
			return
		}

		params, err := parseAssignments(line)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return
		}

		res := weather.Execute(ctx, params)
		if err := writeJSON(out, res.Value()); err != nil {
			fmt.Fprintln(errOut, err)
		}
		if !res.OK() {
			fmt.Fprintf(errOut, "(%s)\n", res.Err)
		}
	}
}

func isExit(in string) bool {
	in = strings.TrimSpace(in)
	return in == "exit" || in == "quit"
}

// parseAssignments reads key=value pairs. A word without "=" continues the
// previous value, so q=New York works without quoting.
func parseAssignments(line string) (service.QueryParameters, error) {
	var params service.QueryParameters
	var keys []string
	values := map[string]string{}

	for _, word := range strings.Fields(line) {
		key, value, ok := strings.Cut(word, "=")
		if !ok {
			if len(keys) == 0 {
				return params, fmt.Errorf("expected key=value, got %q", word)
			}
			last := keys[len(keys)-1]
			values[last] += " " + word
			continue
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}

	for _, key := range keys {
		if err := params.Set(key, values[key]); err != nil {
			return params, err
		}
	}
	return params, nil
}

var shellSuggestions = []prompt.Suggest{
	{Text: "q=", Description: "City name"},
	{Text: "id=", Description: "City ID"},
	{Text: "lat=", Description: "Latitude"},
	{Text: "lon=", Description: "Longitude"},
	{Text: "zip=", Description: "Zip code"},
	{Text: "units=", Description: "metric, imperial or standard"},
	{Text: "lang=", Description: "Response language"},
	{Text: "Mode=", Description: "Response format"},
	{Text: "appid=", Description: "API key"},
	{Text: "exit", Description: "Leave the shell"},
}

func shellCompleter(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if word == "" || strings.Contains(word, "=") {
		return []prompt.Suggest{}
	}
	return prompt.FilterHasPrefix(shellSuggestions, word, true)
}
