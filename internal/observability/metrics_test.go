package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/contourwire/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	okBefore := testutil.ToFloat64(codecOps.WithLabelValues("encode", "true"))
	failBefore := testutil.ToFloat64(codecOps.WithLabelValues("decode", "false"))
	bytesBefore := testutil.ToFloat64(codecBytes.WithLabelValues("encode"))

	RecordCodec(CodecOp{Op: "encode", Bytes: 25, Contours: 1, Duration: 3 * time.Microsecond})
	RecordCodec(CodecOp{Op: "decode", Bytes: 2, Duration: time.Microsecond, Err: errors.New("truncated")})

	if got := testutil.ToFloat64(codecOps.WithLabelValues("encode", "true")) - okBefore; got != 1 {
		t.Fatalf("encode successes grew by %v", got)
	}
	if got := testutil.ToFloat64(codecOps.WithLabelValues("decode", "false")) - failBefore; got != 1 {
		t.Fatalf("decode failures grew by %v", got)
	}
	if got := testutil.ToFloat64(codecBytes.WithLabelValues("encode")) - bytesBefore; got != 25 {
		t.Fatalf("encode bytes grew by %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	testlog.Start(t)
	RecordCodec(CodecOp{Op: "encode", Bytes: 4, Duration: time.Microsecond})

	path := filepath.Join(t.TempDir(), "contourwire.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "contourwire_codec_operations_total") {
		t.Fatalf("textfile missing codec counter:\n%s", data)
	}
}
