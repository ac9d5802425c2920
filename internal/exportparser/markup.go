package exportparser

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	profileLinkMarker         = "instagram.com/"
	profileResolutionBaseURL  = "https://instagram.com"
	linkTextProfile           = "Profile"
	linkTextInstagram         = "Instagram"
	linkTextSpace             = " "
	maxLinkTextLength         = 30
	reservedSegmentExplore    = "explore"
	reservedSegmentPost       = "p"
	reservedSegmentReels      = "reels"
	reservedSegmentStories    = "stories"
	reservedSegmentLoginToken = "login"
	attributeHref             = "href"

	detailLinkUnresolvable = "profile link yielded no identifier"
	detailLinkInvalidURL   = "profile link target is not a valid URL"
)

var (
	rejectedLinkTexts = map[string]struct{}{
		linkTextProfile:   {},
		linkTextInstagram: {},
	}

	reservedPathSegments = map[string]struct{}{
		reservedSegmentExplore: {},
		reservedSegmentPost:    {},
		reservedSegmentReels:   {},
		reservedSegmentStories: {},
	}

	profileResolutionBase = mustParseURL(profileResolutionBaseURL)
)

// profileLink is an anchor element whose target points at a profile page.
type profileLink struct {
	href string
	text string
}

func normalizeMarkup(payload []byte, sink DiagnosticSink) (CanonicalList, error) {
	document, err := html.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, &SyntaxError{Format: FormatMarkup, Err: err}
	}

	links := collectProfileLinks(document)
	builder := newCanonicalListBuilder(len(links))
	for linkIndex, link := range links {
		if identifier, accepted := identifierFromLinkText(link.text); accepted {
			builder.add(identifier)
			continue
		}
		identifier, accepted, parseErr := identifierFromLinkTarget(link.href)
		if accepted {
			builder.add(identifier)
			continue
		}
		message := detailLinkUnresolvable
		if parseErr != nil {
			message = detailLinkInvalidURL
		}
		sink.Report(Diagnostic{
			Format:     FormatMarkup,
			Kind:       DiagnosticEntrySkipped,
			EntryIndex: linkIndex,
			Message:    message,
		})
	}
	return builder.list(), nil
}

// collectProfileLinks walks the document in order and returns every anchor pointing at a profile host.
func collectProfileLinks(document *html.Node) []profileLink {
	var links []profileLink
	var visit func(node *html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == atom.A {
			if href, present := attributeValue(node, attributeHref); present && strings.Contains(href, profileLinkMarker) {
				links = append(links, profileLink{href: href, text: textContent(node)})
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(document)
	return links
}

func identifierFromLinkText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	if _, rejected := rejectedLinkTexts[trimmed]; rejected {
		return "", false
	}
	if strings.Contains(trimmed, linkTextSpace) {
		return "", false
	}
	if utf8.RuneCountInString(trimmed) > maxLinkTextLength {
		return "", false
	}
	return trimmed, true
}

func identifierFromLinkTarget(href string) (string, bool, error) {
	target, err := profileResolutionBase.Parse(href)
	if err != nil {
		return "", false, err
	}
	candidate := firstPathSegment(target.EscapedPath())
	if candidate == "" {
		return "", false, nil
	}
	if _, reserved := reservedPathSegments[candidate]; reserved {
		return "", false, nil
	}
	if strings.Contains(candidate, reservedSegmentLoginToken) {
		return "", false, nil
	}
	return candidate, true, nil
}

func firstPathSegment(path string) string {
	for _, segment := range strings.Split(path, urlPathSeparator) {
		if segment != "" {
			return segment
		}
	}
	return ""
}

func attributeValue(node *html.Node, name string) (string, bool) {
	for _, attribute := range node.Attr {
		if attribute.Namespace == "" && attribute.Key == name {
			return attribute.Val, true
		}
	}
	return "", false
}

func textContent(node *html.Node) string {
	var builder strings.Builder
	var collect func(current *html.Node)
	collect = func(current *html.Node) {
		if current.Type == html.TextNode {
			builder.WriteString(current.Data)
		}
		for child := current.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(node)
	return builder.String()
}

func mustParseURL(rawURL string) *url.URL {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return parsed
}
