package main

import (
	"fmt"
	"os"
	"strconv"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/vampirefrog/muxaudio"
	"github.com/vampirefrog/muxaudio/codec"
)

// codecsCmd represents the codecs command
var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "List all audio codecs and their parameters",
	Long:  `List all audio codecs, their availability in this build, their parameters and supported sample rates`,
	Run: func(cmd *cobra.Command, args []string) {
		listCodecs()
	},
}

func init() {
	RootCmd.AddCommand(codecsCmd)
}

type codecReport struct {
	Name          string
	Available     bool
	SampleRates   string
	EncoderParams []codec.ParamDesc
	DecoderParams []codec.ParamDesc
}

var codecsTmpl = template.Must(template.New("").Parse(
	`
Audio codecs:
{{range .}}
	Name:          {{.Name}}
	Available:     {{.Available}}{{if .Available}}
	Sample rates:  {{.SampleRates}}{{if .EncoderParams}}
	Encoder parameters: {{range .EncoderParams}}
		{{.Name}}: {{.Description}} (default {{.Default}}){{end}}{{end}}{{if .DecoderParams}}
	Decoder parameters: {{range .DecoderParams}}
		{{.Name}}: {{.Description}} (default {{.Default}}){{end}}{{end}}{{end}}
{{end}}`,
))

// listCodecs prints every codec of the registry with its metadata.
func listCodecs() {
	var reports []codecReport
	for _, info := range muxaudio.Codecs() {
		r := codecReport{
			Name:      info.Name,
			Available: muxaudio.Available(info.Type),
		}
		if r.Available {
			if rates, err := muxaudio.SupportedSampleRates(info.Type); err == nil {
				r.SampleRates = formatRates(rates)
			}
			r.EncoderParams, _ = muxaudio.EncoderParams(info.Type)
			r.DecoderParams, _ = muxaudio.DecoderParams(info.Type)
		}
		reports = append(reports, r)
	}
	codecsTmpl.Execute(os.Stdout, reports)
}

func formatRates(rates codec.SampleRates) string {
	if rates.IsRange && len(rates.Rates) == 2 {
		return fmt.Sprintf("%d - %d Hz", rates.Rates[0], rates.Rates[1])
	}
	s := ""
	for i, r := range rates.Rates {
		if i > 0 {
			s += ", "
		}
		s += strconv.Itoa(r)
	}
	return s + " Hz"
}
