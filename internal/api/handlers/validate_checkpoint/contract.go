package validate_checkpoint

import (
	"context"

	processCheckpoint "github.com/m04kA/BNP-ReservationService/internal/usecase/process_checkpoint"
)

type ProcessCheckpointUseCase interface {
	Execute(ctx context.Context, req *processCheckpoint.Request) (*processCheckpoint.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
