package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/lead-manager/internal/entity"
)

// LeadSink receives exported rows one at a time.
type LeadSink interface {
	WriteLead(lead *entity.Lead) error
}

type ExportLeadsUseCase struct {
	Repo    LeadReader
	MaxRows int
}

func NewExportLeadsUseCase(repo LeadReader, maxRows int) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Repo: repo, MaxRows: maxRows}
}

// Execute streams up to MaxRows matching leads into sink and reports how
// many were written and whether the result was cut short.
func (uc *ExportLeadsUseCase) Execute(ctx context.Context, f entity.LeadFilter, s entity.LeadSort, sink LeadSink) (written int, truncated bool, err error) {
	var sinkErr error
	err = uc.Repo.Each(ctx, f, s, func(l *entity.Lead) error {
		if uc.MaxRows > 0 && written >= uc.MaxRows {
			truncated = true
			return entity.ErrStopIteration
		}
		if err := sink.WriteLead(l); err != nil {
			sinkErr = err
			return err
		}
		written++
		return nil
	})
	if sinkErr != nil {
		return written, truncated, &TechnicalError{Code: CodeExport, Message: "write export row failed", Err: sinkErr}
	}
	if err != nil && !errors.Is(err, entity.ErrStopIteration) {
		return written, truncated, mapRepoError(err, "scan leads")
	}
	return written, truncated, nil
}
