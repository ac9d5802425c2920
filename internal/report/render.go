package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/f-sync/followback/internal/relationship"
)

// PageData captures the state needed to render the report page.
type PageData struct {
	// Result is nil when the page should only offer the upload form.
	Result     *relationship.AnalysisResult
	AnalysisID string
	Errors     []string
}

// RenderPage assembles the HTML report using the embedded stylesheet and templates.
func RenderPage(pageData PageData) (string, error) {
	cssText, err := embeddedText(embeddedBaseCSSPath)
	if err != nil {
		return "", err
	}
	viewModel := newReportPageViewModel(pageData, cssText)
	tmpl, err := parseTemplates(embeddedFS, templateIndexFile)
	if err != nil {
		return "", fmt.Errorf("template parse: %w", err)
	}
	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, templateIndexName, viewModel); err != nil {
		return "", fmt.Errorf("template execute: %w", err)
	}
	return buffer.String(), nil
}

type reportPageViewModel struct {
	Title      string
	HasResult  bool
	AnalysisID string
	Summary    []summaryCardViewModel
	Sections   []listSectionViewModel
	Errors     []string
	CSS        template.CSS
}

type summaryCardViewModel struct {
	Label string
	Count int
}

type listSectionViewModel struct {
	Anchor      string
	Heading     string
	Identifiers []string
}

func newReportPageViewModel(pageData PageData, cssText string) reportPageViewModel {
	viewModel := reportPageViewModel{
		Title:      pageTitleText,
		AnalysisID: pageData.AnalysisID,
		CSS:        template.CSS(cssText),
	}
	if len(pageData.Errors) > 0 {
		viewModel.Errors = append(viewModel.Errors, pageData.Errors...)
	}
	if pageData.Result == nil {
		return viewModel
	}

	result := *pageData.Result
	viewModel.HasResult = true
	for _, row := range summaryRows(result.Stats) {
		viewModel.Summary = append(viewModel.Summary, summaryCardViewModel{Label: row.label, Count: row.count})
	}
	for _, kind := range relationship.ListKinds() {
		viewModel.Sections = append(viewModel.Sections, listSectionViewModel{
			Anchor:      string(kind),
			Heading:     listHeading(kind),
			Identifiers: result.List(kind),
		})
	}
	return viewModel
}
