package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bjjflow/internal/modules/journal/domain"
	journalout "bjjflow/internal/modules/journal/port/out"
	"bjjflow/internal/platform/markdown"
	"bjjflow/internal/platform/slug"
)

var (
	sessionBlock = markdown.ManagedBlock{Start: "<!-- bjjflow:session:start -->", End: "<!-- bjjflow:session:end -->"}
	indexBlock   = markdown.ManagedBlock{Start: "<!-- bjjflow:index:start -->", End: "<!-- bjjflow:index:end -->"}
)

// VaultExporter writes the journal as an Obsidian-style folder: one note per
// session plus journal.md linking them. Re-exporting only rewrites managed
// blocks and frontmatter, so text the user added to a note survives.
type VaultExporter struct{}

func NewVaultExporter() journalout.Exporter {
	return VaultExporter{}
}

func (e VaultExporter) Export(ctx context.Context, dir string, sessions []domain.Session) (domain.ExportReport, error) {
	report := domain.ExportReport{Dir: dir, NotePaths: make([]string, 0, len(sessions))}
	links := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return domain.ExportReport{}, err
		}
		rel := notePath(session)
		path, err := withinDir(dir, rel)
		if err != nil {
			return domain.ExportReport{}, err
		}
		if err := writeSessionNote(path, session); err != nil {
			return domain.ExportReport{}, err
		}
		report.NotePaths = append(report.NotePaths, path)
		links = append(links, indexLine(rel, session))
	}

	indexPath := filepath.Join(dir, "journal.md")
	if err := writeIndex(indexPath, links); err != nil {
		return domain.ExportReport{}, err
	}
	report.IndexPath = indexPath
	return report, nil
}

// notePath derives the note location from parsed and slugged fields only;
// stored dates and ids are free text and never reach the path verbatim.
func notePath(session domain.Session) string {
	folder := filepath.Join("sessions", "undated")
	day := "undated"
	if d, ok := domain.ParseDate(session.Date); ok {
		folder = filepath.Join("sessions", d.Format("2006"), d.Format("01"))
		day = d.Format(time.DateOnly)
	}
	name := slug.Make(session.DisplayTitle())
	short := session.ID
	if len(short) > 8 {
		short = short[:8]
	}
	if strings.TrimSpace(short) == "" {
		return filepath.Join(folder, fmt.Sprintf("%s-%s.md", day, name))
	}
	return filepath.Join(folder, fmt.Sprintf("%s-%s-%s.md", day, name, slug.Make(short)))
}

func withinDir(dir, rel string) (string, error) {
	path := filepath.Join(dir, rel)
	back, err := filepath.Rel(dir, path)
	if err != nil {
		return "", fmt.Errorf("resolve note path: %w", err)
	}
	if back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("note path %q escapes export dir", rel)
	}
	return path, nil
}

func writeSessionNote(path string, session domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	body := "# " + session.DisplayTitle() + "\n\n## Reflections\n"
	if existing, err := os.ReadFile(path); err == nil {
		if note, parseErr := markdown.ParseNote(string(existing)); parseErr == nil && strings.TrimSpace(note.Body) != "" {
			body = note.Body
		}
	}
	body = sessionBlock.Apply(body, sessionDetails(session))

	rendered, err := markdown.Note{Meta: sessionFrontmatter(session), Body: body}.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write session note: %w", err)
	}
	return nil
}

func sessionFrontmatter(session domain.Session) map[string]any {
	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             session.ID,
		"title":          session.DisplayTitle(),
		"date":           session.Date,
		"type":           string(session.Type),
		"duration":       session.Duration,
		"intensity":      session.Intensity,
		"positions":      session.Positions,
		"drills":         session.Drills,
		"partners":       session.Partners,
		"tags":           []string{"bjj", slug.Make(string(session.Type))},
	}
	if session.Coach != "" {
		meta["coach"] = session.Coach
	}
	return meta
}

func sessionDetails(session domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Type: %s\n", session.Type)
	fmt.Fprintf(&b, "- Duration: %d min\n", session.Duration)
	fmt.Fprintf(&b, "- Intensity: %d/%d\n", session.Intensity, domain.MaxIntensity)
	if session.Coach != "" {
		fmt.Fprintf(&b, "- Coach: %s\n", session.Coach)
	}
	writeList(&b, "Positions", session.Positions)
	writeList(&b, "Drills", session.Drills)
	writeList(&b, "Partners", session.Partners)
	if notes := strings.TrimSpace(session.Notes); notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(items, ", "))
}

func indexLine(rel string, session domain.Session) string {
	target := strings.TrimSuffix(filepath.ToSlash(rel), ".md")
	return fmt.Sprintf("- %s [[%s|%s]] · %s · %d min", session.Date, target, session.DisplayTitle(), session.Type, session.Duration)
}

func writeIndex(path string, links []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	body := "# Training Journal\n"
	if existing, err := os.ReadFile(path); err == nil {
		body = string(existing)
	}
	content := "_No sessions yet._"
	if len(links) > 0 {
		content = strings.Join(links, "\n")
	}
	body = indexBlock.Apply(body, content)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write journal index: %w", err)
	}
	return nil
}
