package session

import (
	"strings"
	"testing"
	"time"
)

func fixedPicker(index int) TemplatePicker {
	return NewTemplatePicker(func(n int) int { return index % n })
}

func TestTemplatePicker_DeterministicWithFixedSource(t *testing.T) {
	p := fixedPicker(0)
	if p.Excuse() != excuseTemplates[0] {
		t.Fatalf("unexpected excuse: %s", p.Excuse())
	}
	if p.FastReason() != fastTemplates[0] {
		t.Fatalf("unexpected fast reason: %s", p.FastReason())
	}

	p = fixedPicker(2)
	if p.SlowReason() != slowTemplates[2] {
		t.Fatalf("unexpected slow reason: %s", p.SlowReason())
	}
	if p.NormalPhrase() != normalTemplates[2] {
		t.Fatalf("unexpected normal phrase: %s", p.NormalPhrase())
	}
}

func TestListenSummary_Partial(t *testing.T) {
	text := listenSummary(90*time.Second, 205*time.Second, ListenPartial, fixedPicker(1))
	if !strings.Contains(text, "for 1 minutes 30 seconds") {
		t.Fatalf("listened time missing: %s", text)
	}
	if !strings.Contains(text, "3mins 25secs long") {
		t.Fatalf("track length missing: %s", text)
	}
	if !strings.Contains(text, excuseTemplates[1]) {
		t.Fatalf("excuse missing: %s", text)
	}
}

func TestListenSummary_Full(t *testing.T) {
	text := listenSummary(200*time.Second, 205*time.Second, ListenFull, fixedPicker(0))
	if !strings.Contains(text, "listened to the whole thing") {
		t.Fatalf("unexpected full-listen text: %s", text)
	}
}

func TestListenSummary_Resumed(t *testing.T) {
	text := listenSummary(400*time.Second, 205*time.Second, ListenResumed, fixedPicker(0))
	if !strings.Contains(text, "must have paused your song") {
		t.Fatalf("unexpected resumed text: %s", text)
	}
}

func TestSpeedSummary_BandsUseTheirTemplates(t *testing.T) {
	fast := speedSummary(25, 25, 18, SpeedFast, fixedPicker(0))
	if !strings.Contains(fast, fastTemplates[0]) {
		t.Fatalf("fast template missing: %s", fast)
	}
	slow := speedSummary(5, 5, 18, SpeedSlow, fixedPicker(0))
	if !strings.Contains(slow, slowTemplates[0]) {
		t.Fatalf("slow template missing: %s", slow)
	}
	normal := speedSummary(20, 20, 18, SpeedNormal, fixedPicker(0))
	if !strings.Contains(normal, normalTemplates[0]) {
		t.Fatalf("normal template missing: %s", normal)
	}
}

func TestSpeedSummary_IncludesNumbers(t *testing.T) {
	text := speedSummary(12.34, 15.5, 18, SpeedSlow, fixedPicker(0))
	if !strings.Contains(text, "12.34km") {
		t.Fatalf("distance missing: %s", text)
	}
	if !strings.Contains(text, "15.5km/h") {
		t.Fatalf("speed missing: %s", text)
	}
}
