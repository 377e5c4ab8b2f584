package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
)

const (
	objCredential = "identity:credential"
	actRead       = "read"
)

type CredentialReportInput struct {
	UserID int64 `validate:"required,gt=0"`
}

// CredentialReport inspects the stored credential of a user. It tells an
// operator whether the record is a well-formed hash and whether it is due for
// an upgrade; it never reads or returns a plaintext.
func (s *Usecase) CredentialReport(ctx context.Context, in CredentialReportInput) (*entity.CredentialReport, error) {
	ctx, span := s.startSpan(ctx, "CredentialReport")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, objCredential, actRead)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cred, err := s.repoDB.GetUserCredentialInfo(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential info", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	report := &entity.CredentialReport{
		UserID:    cred.ID,
		UpdatedAt: cred.UpdatedAt,
	}

	info, err := s.password.Inspect(cred.Password)
	if err != nil {
		slog.WarnContext(ctx, "stored credential is malformed", "user_id", cred.ID, "by", clm.UserID, "error", err)
		report.Algorithm = hash.Detect(cred.Password).String()
		return report, nil
	}

	report.Algorithm = info.Algorithm.String()
	report.Cost = info.Cost
	report.WellFormed = true
	report.NeedsRehash = s.password.NeedsRehash(cred.Password)

	slog.InfoContext(ctx, "credential report served", "user_id", cred.ID, "by", clm.UserID)

	return report, nil
}
