package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/questx-lab/nftmint/internal/common"
	"github.com/questx-lab/nftmint/pkg/router"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		code := http.StatusOK
		if xcontext.Error(ctx) != nil {
			code = http.StatusInternalServerError
		}
		path := req.URL.Path

		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, fmt.Sprint(code)).Inc()

		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(path, fmt.Sprint(code)).
				Observe(time.Since(startTime).Seconds())
		}
	}
}
