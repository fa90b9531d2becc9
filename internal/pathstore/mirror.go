package pathstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/persona"
)

// Mirror publishes outlines and analyses as pathstore nodes under a prefix.
//
//	<prefix>/outlines/<hash>
//	<prefix>/analyses/<job>
//	<prefix>/analyses/<job>/sections/<rank>-<slug>
type Mirror struct {
	client *Client
	prefix string
}

func NewMirror(client *Client, prefix string) *Mirror {
	if prefix == "" {
		prefix = "docsight"
	}
	return &Mirror{client: client, prefix: strings.Trim(prefix, "/")}
}

func (m *Mirror) OutlineKey(hash string) string {
	return m.prefix + "/outlines/" + hash
}

func (m *Mirror) AnalysisKey(jobID string) string {
	return m.prefix + "/analyses/" + jobID
}

// PublishOutline writes one outline node.
func (m *Mirror) PublishOutline(ctx context.Context, hash, filename string, res *outline.Result) error {
	return m.client.PutNode(ctx, m.OutlineKey(hash), NodeRequest{
		Value: map[string]any{
			"filename": filename,
			"title":    res.Title,
			"outline":  res.Outline,
		},
		MemoryType: "semantic",
		Source:     filename,
	})
}

// HasOutline reports whether the outline node for hash exists.
func (m *Mirror) HasOutline(ctx context.Context, hash string) (bool, error) {
	node, err := m.client.GetNode(ctx, m.OutlineKey(hash))
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// DeleteOutline removes an outline node.
func (m *Mirror) DeleteOutline(ctx context.Context, hash string) error {
	return m.client.DeleteNode(ctx, m.OutlineKey(hash), false)
}

// PublishAnalysis writes the analysis node, one node per ranked section and a
// link from the analysis to each section weighted by rank.
func (m *Mirror) PublishAnalysis(ctx context.Context, jobID string, res *persona.AnalysisResult) error {
	root := m.AnalysisKey(jobID)
	if err := m.client.PutNode(ctx, root, NodeRequest{
		Value:      res.Metadata,
		MemoryType: "episodic",
		Source:     res.Metadata.Persona,
	}); err != nil {
		return err
	}

	for i, sec := range res.ExtractedSections {
		key := fmt.Sprintf("%s/sections/%d-%s", root, sec.ImportanceRank, Slugify(sec.SectionTitle))
		value := map[string]any{
			"document":      sec.Document,
			"section_title": sec.SectionTitle,
			"page_number":   sec.PageNumber,
		}
		if i < len(res.SubsectionAnalysis) {
			value["refined_text"] = res.SubsectionAnalysis[i].RefinedText
		}
		if err := m.client.PutNode(ctx, key, NodeRequest{Value: value, MemoryType: "semantic", Source: sec.Document}); err != nil {
			return err
		}
		if err := m.client.PutLink(ctx, LinkRequest{
			From:    root,
			To:      key,
			Weight:  1 / float64(sec.ImportanceRank),
			Summary: sec.SectionTitle,
		}); err != nil {
			return err
		}
	}
	return nil
}

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns  = regexp.MustCompile(`-+`)
	maxSlugLn = 50
)

// Slugify converts a string to a path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLn {
		s = strings.TrimRight(s[:maxSlugLn], "-")
	}
	if s == "" {
		return "section"
	}
	return s
}
