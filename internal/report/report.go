// Package report renders relationship analyses for people and programs.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/f-sync/followback/internal/relationship"
)

// OutputFormat selects how Encode renders an analysis.
type OutputFormat string

const (
	// OutputText is an aligned plain-text summary followed by the three lists.
	OutputText OutputFormat = "text"
	// OutputJSON is the indented JSON encoding of the analysis.
	OutputJSON OutputFormat = "json"
	// OutputYAML is the YAML encoding of the analysis.
	OutputYAML OutputFormat = "yaml"
	// OutputHTML is a self-contained HTML report page.
	OutputHTML OutputFormat = "html"

	jsonIndent                     = "  "
	yamlIndent                     = 2
	errMessageUnknownOutputFormat  = "unknown output format"
	errMessageEncodeFormat         = "encode %s: %w"
	outputFormatAliasYML           = "yml"
	outputFormatAliasPlain         = "plain"
	outputFormatAliasHTM           = "htm"
	unknownOutputFormatErrorFormat = "%w: %q"
)

// ErrUnknownOutputFormat indicates that an output format name is not supported.
var ErrUnknownOutputFormat = errors.New(errMessageUnknownOutputFormat)

var outputFormatsByName = map[string]OutputFormat{
	string(OutputText):     OutputText,
	outputFormatAliasPlain: OutputText,
	string(OutputJSON):     OutputJSON,
	string(OutputYAML):     OutputYAML,
	outputFormatAliasYML:   OutputYAML,
	string(OutputHTML):     OutputHTML,
	outputFormatAliasHTM:   OutputHTML,
}

// ParseOutputFormat resolves an output format name such as "json" or "yml".
func ParseOutputFormat(value string) (OutputFormat, error) {
	format, known := outputFormatsByName[strings.ToLower(strings.TrimSpace(value))]
	if !known {
		return "", fmt.Errorf(unknownOutputFormatErrorFormat, ErrUnknownOutputFormat, value)
	}
	return format, nil
}

// Encode writes result to writer in the requested format.
func Encode(writer io.Writer, result relationship.AnalysisResult, format OutputFormat) error {
	var err error
	switch format {
	case OutputText:
		err = WriteText(writer, result)
	case OutputJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", jsonIndent)
		err = encoder.Encode(result)
	case OutputYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(yamlIndent)
		if err = encoder.Encode(result); err == nil {
			err = encoder.Close()
		}
	case OutputHTML:
		var pageHTML string
		pageHTML, err = RenderPage(PageData{Result: &result})
		if err == nil {
			_, err = io.WriteString(writer, pageHTML)
		}
	default:
		return fmt.Errorf(unknownOutputFormatErrorFormat, ErrUnknownOutputFormat, format)
	}
	if err != nil {
		return fmt.Errorf(errMessageEncodeFormat, format, err)
	}
	return nil
}
