package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bjjflow/internal/modules/journal/domain"
	"bjjflow/internal/modules/journal/dto"
	journalin "bjjflow/internal/modules/journal/port/in"
	journalout "bjjflow/internal/modules/journal/port/out"
	"bjjflow/internal/modules/journal/service"
	apperrors "bjjflow/internal/platform/errors"
)

type Interactor struct {
	svc      *service.JournalService
	exporter journalout.Exporter
}

func NewInteractor(svc *service.JournalService, exporter journalout.Exporter) journalin.Usecase {
	return &Interactor{svc: svc, exporter: exporter}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddSessionInput) (dto.SessionOutput, error) {
	sessionType, err := domain.ParseSessionType(input.Type)
	if err != nil {
		return dto.SessionOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	draft := domain.Session{
		Title:     strings.TrimSpace(input.Title),
		Date:      input.Date,
		Type:      sessionType,
		Duration:  domain.ClampDuration(input.Duration),
		Intensity: domain.ClampIntensity(input.Intensity),
		Positions: domain.CleanList(input.Positions),
		Drills:    domain.CleanList(input.Drills),
		Partners:  domain.CleanList(input.Partners),
		Coach:     strings.TrimSpace(input.Coach),
		Notes:     strings.TrimSpace(input.Notes),
	}
	created, err := i.svc.Add(ctx, draft)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(created), nil
}

func (i *Interactor) Remove(ctx context.Context, input dto.RemoveInput) (dto.RemoveOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return dto.RemoveOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if !input.Confirmed {
		return dto.RemoveOutput{ID: id}, apperrors.ErrConfirmationRequired
	}
	removed, err := i.svc.Remove(ctx, id)
	if err != nil {
		return dto.RemoveOutput{}, err
	}
	return dto.RemoveOutput{ID: id, Removed: removed}, nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error) {
	query, err := toQuery(input)
	if err != nil {
		return dto.ListOutput{}, err
	}
	if err := i.svc.Open(ctx); err != nil {
		return dto.ListOutput{}, err
	}
	all := i.svc.Snapshot()
	filtered := domain.Filter(all, query)
	out := dto.ListOutput{Sessions: make([]dto.SessionOutput, 0, len(filtered)), Total: len(all)}
	for _, session := range filtered {
		out.Sessions = append(out.Sessions, toOutput(session))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

// Recent returns up to limit sessions in store order, most recently stored
// first. Dates play no part in the selection.
func (i *Interactor) Recent(ctx context.Context, limit int) ([]dto.SessionOutput, error) {
	if err := i.svc.Open(ctx); err != nil {
		return nil, err
	}
	all := i.svc.Snapshot()
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]dto.SessionOutput, 0, len(all))
	for _, session := range all {
		out = append(out, toOutput(session))
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context, input dto.ListInput) (dto.StatsOutput, error) {
	query, err := toQuery(input)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	if err := i.svc.Open(ctx); err != nil {
		return dto.StatsOutput{}, err
	}
	summary := domain.Summarize(domain.Filter(i.svc.Snapshot(), query))
	out := dto.StatsOutput{
		Count:            summary.Count,
		TotalMinutes:     summary.TotalMinutes,
		MatTime:          domain.MatTimeLabel(summary.TotalMinutes),
		PerType:          make([]dto.TypeCountOutput, 0, len(summary.PerType)),
		TotalPositions:   summary.TotalPositions,
		TotalDrills:      summary.TotalDrills,
		AverageIntensity: summary.AverageIntensity,
		TopPositions:     make([]dto.PositionCountOutput, 0, len(summary.TopPositions)),
	}
	for _, tc := range summary.PerType {
		out.PerType = append(out.PerType, dto.TypeCountOutput{Type: string(tc.Type), Count: tc.Count})
	}
	for _, lc := range summary.TopPositions {
		out.TopPositions = append(out.TopPositions, dto.PositionCountOutput{Position: lc.Label, Count: lc.Count})
	}
	return out, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	if i.exporter == nil {
		return dto.ExportOutput{}, fmt.Errorf("journal exporter is not configured")
	}
	dir := strings.TrimSpace(input.Dir)
	if dir == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: export dir is required", apperrors.ErrInvalidInput)
	}
	if err := i.svc.Open(ctx); err != nil {
		return dto.ExportOutput{}, err
	}
	report, err := i.exporter.Export(ctx, dir, domain.Filter(i.svc.Snapshot(), domain.Query{}))
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Dir: report.Dir, IndexPath: report.IndexPath, Notes: len(report.NotePaths)}, nil
}

func toQuery(input dto.ListInput) (domain.Query, error) {
	from, err := parseBound("from", input.From)
	if err != nil {
		return domain.Query{}, err
	}
	to, err := parseBound("to", input.To)
	if err != nil {
		return domain.Query{}, err
	}
	return domain.Query{Text: input.Query, From: from, To: to}, nil
}

func parseBound(name, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, ok := domain.ParseDate(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s date %q is not YYYY-MM-DD", apperrors.ErrInvalidInput, name, raw)
	}
	return t, nil
}

func toOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:           s.ID,
		Title:        s.Title,
		DisplayTitle: s.DisplayTitle(),
		Date:         s.Date,
		Type:         string(s.Type),
		Duration:     s.Duration,
		Intensity:    s.Intensity,
		Positions:    nonNil(s.Positions),
		Drills:       nonNil(s.Drills),
		Partners:     nonNil(s.Partners),
		Coach:        s.Coach,
		Notes:        s.Notes,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
