package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/questx-lab/nftmint/internal/common"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/logger"
	"github.com/questx-lab/nftmint/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type recordLogger struct {
	logger.Logger
	infos, warns, errors int
	lastInfo             string
}

func (l *recordLogger) Infof(format string, args ...any) {
	l.infos++
	l.lastInfo = fmt.Sprintf(format, args...)
}

func (l *recordLogger) Warnf(string, ...any) { l.warns++ }
func (l *recordLogger) Errorf(string, ...any) { l.errors++ }

func requestContext(path string) (context.Context, *recordLogger) {
	l := &recordLogger{}
	ctx := xcontext.WithLogger(context.Background(), l)
	ctx = xcontext.WithHTTPRequest(ctx, httptest.NewRequest(http.MethodPost, path, nil))
	return ctx, l
}

func Test_WithStartTime(t *testing.T) {
	ctx, err := WithStartTime()(context.Background())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), xcontext.StartTime(ctx), time.Second)
}

func Test_Logger_PercentInPath(t *testing.T) {
	ctx, l := requestContext("/api/%25d%25s")
	Logger()(ctx)
	require.Equal(t, "POST | /api/%d%s", l.lastInfo)
}

func Test_Logger(t *testing.T) {
	ctx, l := requestContext("/api/generate")
	Logger()(ctx)
	require.Equal(t, 1, l.infos)

	ctx, l = requestContext("/api/generate")
	Logger()(xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid author address")))
	require.Equal(t, 1, l.warns)

	ctx, l = requestContext("/api/generate")
	Logger()(xcontext.WithError(ctx, context.Canceled))
	require.Equal(t, 1, l.errors)
}

func Test_Prometheus(t *testing.T) {
	counter := common.PromCounters[common.HTTPRequestTotal]
	before := testutil.ToFloat64(counter.WithLabelValues("/metrics-test", "500"))

	ctx, _ := requestContext("/metrics-test")
	ctx = xcontext.WithStartTime(ctx, time.Now())
	Prometheus()(xcontext.WithError(ctx, errorx.Unknown))

	require.Equal(t, before+1, testutil.ToFloat64(counter.WithLabelValues("/metrics-test", "500")))
}
