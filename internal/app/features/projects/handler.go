// Package projects serves the project feed and the progress and completion
// actions of signed-in contractors.
package projects

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

	// History serves /projects/{id}/history. Nil answers an empty list.
	History HistoryReader
}

func NewHandler(mgr *lifecycle.Manager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Mgr:    mgr,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
}
