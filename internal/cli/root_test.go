package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"equiverse/internal/analysis/intervention"
	"equiverse/internal/config"
	"equiverse/internal/gamification"
	"equiverse/internal/models"
	"equiverse/internal/notify"
	"equiverse/internal/store"
)

func newWiredApp(buf *bytes.Buffer) *App {
	ds := store.NewMemoryStore()
	app := &App{
		Logger:   zerolog.Nop(),
		Store:    ds,
		XP:       gamification.NewManager(ds, zerolog.Nop(), 100),
		Coach:    intervention.NewComposer(0, 0),
		Notifier: notify.NewMultiNotifier(config.NotifyConfig{Enabled: true, Terminal: true}, buf),
	}
	app.wireEvents()
	return app
}

func TestWireEventsDeliversXPAwards(t *testing.T) {
	buf := &bytes.Buffer{}
	app := newWiredApp(buf)

	if _, err := app.XP.AwardForAction(context.Background(), gamification.ActionDailyLogin); err != nil {
		t.Fatalf("award: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "+50 XP") {
		t.Errorf("XP award not delivered: %q", out)
	}
}

func TestWireEventsDeliversInterventions(t *testing.T) {
	buf := &bytes.Buffer{}
	app := newWiredApp(buf)

	findings := []models.BiasFinding{{
		Type:           models.BiasOverconfidence,
		Strength:       90,
		Impact:         models.ImpactNegative,
		Recommendation: "Review past mistakes and consider more conservative positions",
	}}
	app.Coach.Evaluate(nil, findings, nil, "")

	out := buf.String()
	if !strings.Contains(out, "Cognitive Bias Detected: OVERCONFIDENCE") {
		t.Errorf("intervention not delivered: %q", out)
	}
	if !strings.Contains(out, "🔴") {
		t.Errorf("severity tag missing: %q", out)
	}
}
