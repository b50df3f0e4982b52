// Package report renders analyses, graphs and enriched findings for the terminal
// or as JSON.
package report

import (
	_ "crypto/sha256" // registers the digest algorithm
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/analysiscache"
	"go.trai.ch/specscope/internal/engine/orchestrator"
	"go.trai.ch/specscope/internal/ui/output"
	"go.trai.ch/specscope/internal/ui/style"
	"go.trai.ch/zerr"
)

// Format selects the report encoding.
type Format string

const (
	// FormatText is the human readable report.
	FormatText Format = "text"
	// FormatJSON is the machine readable report.
	FormatJSON Format = "json"
)

// ParseFormat parses a --format value. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", zerr.With(domain.ErrUnknownFormat, "format", s)
	}
}

// Analysis is everything an analysis report shows.
type Analysis struct {
	Title    string
	Version  string
	Digest   string
	Findings []domain.EnrichedFinding
	Outcome  *orchestrator.Outcome
}

// Renderer writes reports to a single writer.
type Renderer struct {
	w      io.Writer
	out    *termenv.Output
	format Format
}

// NewRenderer creates a Renderer writing to w in format.
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{
		w:      w,
		out:    output.NewPlainUnlessTerminal(w),
		format: format,
	}
}

// Analysis writes the outcome of an analysis.
func (r *Renderer) Analysis(a Analysis) error {
	if r.format == FormatJSON {
		return r.json(analysisView{
			Spec:     specView{Title: a.Title, Version: a.Version, Digest: a.Digest},
			Outcome:  a.Outcome,
			Findings: a.Findings,
		})
	}

	var b strings.Builder
	res := a.Outcome.Result

	b.WriteString(r.bold(header(a)) + "\n")
	fmt.Fprintf(&b, "Score: %s\n", r.paint(fmt.Sprintf("%d/100", res.Stats.Score), style.ScoreColor(res.Stats.Score)))
	fmt.Fprintf(&b, "Findings: %d total, %d in chains, %d isolated\n",
		res.Stats.TotalFindings, res.Stats.ChainedCount, res.Stats.IsolatedCount)
	fmt.Fprintf(&b, "Source: %s\n", source(a.Outcome))
	if res.Degraded {
		b.WriteString(r.paint(style.Warning+" Degraded: "+res.DegradedReason, style.Yellow) + "\n")
	}

	if len(res.Chains) > 0 {
		fmt.Fprintf(&b, "\nChains (%d)\n", len(res.Chains))
		for _, c := range res.Chains {
			r.chain(&b, c)
		}
	}

	if isolated := pick(a.Findings, res.Stats.Isolated); len(isolated) > 0 {
		fmt.Fprintf(&b, "\nIsolated findings (%d)\n", len(isolated))
		for _, f := range isolated {
			b.WriteString(r.findingLine(&f.RawFinding) + "\n")
		}
	}

	return r.write(b.String())
}

// Graph writes the adjacency of g and its anomalies.
func (r *Renderer) Graph(g *domain.Graph) error {
	if r.format == FormatJSON {
		return r.json(newGraphView(g))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Graph: %d nodes, %d edges\n", g.NodeCount(), g.EdgeCount())
	for _, id := range g.Nodes() {
		b.WriteString(r.bold(id.String()) + "\n")
		for _, dep := range g.Dependencies(id) {
			fmt.Fprintf(&b, "  %s %s\n", style.Arrow, dep)
		}
	}

	if anomalies := g.Anomalies(); len(anomalies) > 0 {
		fmt.Fprintf(&b, "\nAnomalies (%d)\n", len(anomalies))
		for _, an := range anomalies {
			line := fmt.Sprintf("%s %s %s %s", style.Warning, an.Source, style.Arrow, an.Ref)
			if reason := an.Reason(); reason != "" {
				line += ": " + reason
			}
			b.WriteString(r.paint(line, style.Yellow) + "\n")
		}
	}

	return r.write(b.String())
}

// Findings writes enriched findings.
func (r *Renderer) Findings(findings []domain.EnrichedFinding) error {
	if r.format == FormatJSON {
		if findings == nil {
			findings = []domain.EnrichedFinding{}
		}
		return r.json(findings)
	}

	var b strings.Builder
	for _, f := range findings {
		b.WriteString(r.findingLine(&f.RawFinding) + "\n")
		fmt.Fprintf(&b, "  public: %s, auth required: %s\n", yesNo(f.IsPublic), yesNo(f.AuthRequired))
		if len(f.PrivilegedFields) > 0 {
			fmt.Fprintf(&b, "  privileged fields: %s\n", strings.Join(f.PrivilegedFields, ", "))
		}
		if len(f.DependentEndpoints) > 0 {
			line := "  dependents: " + strings.Join(f.DependentEndpoints, ", ")
			if f.DependentsTruncated {
				line += " (truncated)"
			}
			b.WriteString(line + "\n")
		}
		if len(f.DependencyPath) > 1 {
			fmt.Fprintf(&b, "  path: %s\n", strings.Join(f.DependencyPath, " "+style.Arrow+" "))
		}
	}
	return r.write(b.String())
}

func (r *Renderer) chain(b *strings.Builder, c domain.Chain) {
	title := c.Title
	if title == "" {
		title = "untitled chain"
	}
	fmt.Fprintf(b, "%s %s\n", r.severityTag(c.Severity), title)
	for _, s := range c.Steps {
		line := fmt.Sprintf("  %d. %s", s.Order, s.Description)
		if ep := stepEndpoint(s); ep != "" {
			line += " (" + ep + ")"
		}
		b.WriteString(line + "\n")
	}
	if len(c.AffectedEndpoints) > 0 {
		fmt.Fprintf(b, "  endpoints: %s\n", strings.Join(c.AffectedEndpoints, ", "))
	}
	fmt.Fprintf(b, "  findings: %s\n", strings.Join(c.FindingRefs, ", "))
}

func (r *Renderer) findingLine(f *domain.RawFinding) string {
	parts := []string{r.severityTag(f.Severity), f.ID}
	if f.Category != "" {
		parts = append(parts, f.Category)
	}
	if anchor := f.Anchor.String(); anchor != "" {
		parts = append(parts, anchor)
	}
	line := strings.Join(parts, " ")
	if f.Message != "" {
		line += ": " + f.Message
	}
	return line
}

func (r *Renderer) severityTag(s domain.Severity) string {
	return r.paint(style.Dot+" ["+strings.ToUpper(string(s))+"]", style.SeverityColor(s))
}

func (r *Renderer) paint(s string, c lipgloss.Color) string {
	return r.out.String(s).Foreground(termenv.RGBColor(string(c))).String()
}

func (r *Renderer) bold(s string) string {
	return r.out.String(s).Bold().String()
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

func (r *Renderer) write(s string) error {
	if _, err := io.WriteString(r.w, s); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

func header(a Analysis) string {
	title := a.Title
	if title == "" {
		title = "untitled spec"
	}
	if a.Version != "" {
		title += " " + a.Version
	}
	if a.Digest != "" {
		title += " (" + shortDigest(a.Digest) + ")"
	}
	return title
}

// shortDigest abbreviates a content digest to twelve hex characters.
func shortDigest(s string) string {
	d, err := digest.Parse(s)
	if err != nil {
		return s
	}
	return d.Encoded()[:12]
}

func source(o *orchestrator.Outcome) string {
	var src string
	switch {
	case o.Level != analysiscache.LevelNone:
		src = "cache (" + o.Level.String() + ")"
	case o.FromStore:
		src = "result store"
	default:
		src = "computed"
	}
	if o.Shared {
		src += ", shared"
	}
	return src
}

func stepEndpoint(s domain.ChainStep) string {
	switch {
	case s.Method != "" && s.Endpoint != "":
		return strings.ToUpper(s.Method) + " " + s.Endpoint
	default:
		return s.Endpoint
	}
}

// pick returns the findings whose ids are listed, in findings order.
func pick(findings []domain.EnrichedFinding, ids []string) []domain.EnrichedFinding {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []domain.EnrichedFinding
	for _, f := range findings {
		if _, ok := want[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
