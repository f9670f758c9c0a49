// Package issues serves report submission, the issue map feed, and
// assignment of issues to the signed-in contractor.
package issues

import (
	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"go.uber.org/zap"
)

type Handler struct {
	Mgr    *lifecycle.Manager
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

func NewHandler(mgr *lifecycle.Manager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Mgr:    mgr,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
}
