package ntp

import (
	"context"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Querier samples a single time server.
	Querier interface {
		Query(ctx context.Context, server string) (Sample, error)
	}
	// StateWriter receives the selected margin and the local time it was measured at.
	StateWriter interface {
		Update(margin time.Duration, localTime model.Timestamp)
	}
	// WorkerMetrics records polling outcomes.
	WorkerMetrics interface {
		ObservePoll(err error, responders int, offset time.Duration, started time.Time)
	}
)
