package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegisterWith_FreshRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegisterWith(reg)

	IncTelegramCommand("/start")
	ObserveZadarmaRequest("/v1/request/callback/", "GET", "200", 20*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"telegram_commands_received_total", "zadarma_requests_total", "zadarma_request_duration_seconds"} {
		if !names[want] {
			t.Errorf("expected %s to be gathered", want)
		}
	}
}

func TestIncTelegramCallback_CollapsesUnknown(t *testing.T) {
	before := testutil.ToFloat64(telegramCallbacksTotal.WithLabelValues("unknown"))
	IncTelegramCallback("drop table", false)
	IncTelegramCallback("whatever", false)
	after := testutil.ToFloat64(telegramCallbacksTotal.WithLabelValues("unknown"))
	if after-before != 2 {
		t.Fatalf("expected unknown counter to grow by 2, got %v", after-before)
	}
}

func TestIncIntercomCall_NormalizesLabels(t *testing.T) {
	before := testutil.ToFloat64(intercomCallsTotal.WithLabelValues("entry", OutcomeAccepted))
	IncIntercomCall(" Entry ", "ACCEPTED")
	after := testutil.ToFloat64(intercomCallsTotal.WithLabelValues("entry", OutcomeAccepted))
	if after-before != 1 {
		t.Fatalf("expected counter +1, got %v", after-before)
	}
}
