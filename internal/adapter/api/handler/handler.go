package handler

import (
	"scamwatch/internal/usecase"
)

var (
	scamReportHandler       *ScamReportHandler
	consolidatedScamHandler *ConsolidatedScamHandler
	scamStatsHandler        *ScamStatsHandler
	scamCommentHandler      *ScamCommentHandler
	userHandler             *UserHandler
)

// Options carries the request limits handlers enforce before reaching a usecase.
type Options struct {
	MaxProofBytes   int64
	DefaultPageSize int
}

func Setup(
	scamReportUseCase *usecase.ScamReportUseCase,
	consolidationUseCase *usecase.ConsolidationUseCase,
	scamStatsUseCase *usecase.ScamStatsUseCase,
	scamCommentUseCase *usecase.ScamCommentUseCase,
	userUseCase *usecase.UserUseCase,
	opts Options,
) {
	scamReportHandler = NewScamReportHandler(scamReportUseCase, opts)
	consolidatedScamHandler = NewConsolidatedScamHandler(consolidationUseCase, opts.DefaultPageSize)
	scamStatsHandler = NewScamStatsHandler(scamStatsUseCase)
	scamCommentHandler = NewScamCommentHandler(scamCommentUseCase)
	userHandler = NewUserHandler(userUseCase)
}

func GetScamReportHandler() *ScamReportHandler {
	return scamReportHandler
}

func GetConsolidatedScamHandler() *ConsolidatedScamHandler {
	return consolidatedScamHandler
}

func GetScamStatsHandler() *ScamStatsHandler {
	return scamStatsHandler
}

func GetScamCommentHandler() *ScamCommentHandler {
	return scamCommentHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}
